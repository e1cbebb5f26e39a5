package database

import (
	"fmt"

	"github.com/ebosebastien68-maker/backhend-harmonia/internal/config"
	"github.com/ebosebastien68-maker/backhend-harmonia/internal/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	// TranslateError turns unique-constraint violations into
	// gorm.ErrDuplicatedKey; the answer pipeline and join flow rely on it.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	log.Info("database connected")
	return db
}

func AutoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Profile{},
		&models.Game{},
		&models.GameSession{},
		&models.Party{},
		&models.PartyPlayer{},
		&models.GameRun{},
		&models.RunQuestion{},
		&models.UserRunAnswer{},
	)
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	seedGames(db)
}

// seedGames inserts the fixed game catalog. Idempotent on key_name.
func seedGames(db *gorm.DB) {
	games := []models.Game{
		{KeyName: "vrai-faux", Name: "Vrai ou Faux"},
	}
	for _, g := range games {
		db.Where(models.Game{KeyName: g.KeyName}).FirstOrCreate(&g)
	}
}
