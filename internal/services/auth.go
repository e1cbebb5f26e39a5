package services

import (
	"errors"
	"time"

	"github.com/ebosebastien68-maker/backhend-harmonia/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	db        *gorm.DB
	jwtSecret []byte
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{db: db, jwtSecret: []byte(jwtSecret)}
}

// Identity is what the middleware attaches to a request after token
// validation.
type Identity struct {
	UserID uint
	Role   models.Role
}

func (s *AuthService) Register(email, password, nom, prenom string) (string, error) {
	var existing models.Profile
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return "", Conflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	profile := models.Profile{
		Email:        email,
		PasswordHash: string(hash),
		Nom:          nom,
		Prenom:       prenom,
		Role:         models.RolePlayer,
	}
	if err := s.db.Create(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", Conflict("email already registered")
		}
		return "", err
	}

	return s.GenerateToken(profile.ID, profile.Role)
}

func (s *AuthService) Login(email, password string) (string, error) {
	var profile models.Profile
	if err := s.db.Where("email = ?", email).First(&profile).Error; err != nil {
		return "", Authorization("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return "", Authorization("invalid credentials")
	}

	return s.GenerateToken(profile.ID, profile.Role)
}

func (s *AuthService) GenerateToken(userID uint, role models.Role) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) ValidateToken(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, Authorization("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, Authorization("invalid claims")
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return nil, Authorization("invalid user_id in token")
	}

	roleStr, _ := claims["role"].(string)
	role, ok := models.ParseRole(roleStr)
	if !ok {
		return nil, Authorization("unknown role in token")
	}

	return &Identity{UserID: uint(userIDFloat), Role: role}, nil
}
