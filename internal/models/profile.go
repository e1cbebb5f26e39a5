package models

import "time"

type Profile struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Nom          string    `gorm:"size:100" json:"nom"`
	Prenom       string    `gorm:"size:100" json:"prenom"`
	AvatarURL    string    `gorm:"size:255" json:"avatar_url,omitempty"`
	Role         Role      `gorm:"size:20;not null;default:'player'" json:"role"`
	SoldeCFA     int       `gorm:"not null;default:0" json:"solde_cfa"`
	CreatedAt    time.Time `json:"created_at"`
}
