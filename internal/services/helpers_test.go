package services

import (
	"path/filepath"
	"testing"

	"github.com/ebosebastien68-maker/backhend-harmonia/internal/database"
	"github.com/ebosebastien68-maker/backhend-harmonia/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway sqlite database with the same migration
// and error-translation settings as the postgres deployment.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	database.AutoMigrate(db)
	return db
}

func createPlayer(t *testing.T, db *gorm.DB, email string, balance int) uint {
	t.Helper()

	profile := models.Profile{
		Email:        email,
		PasswordHash: "x",
		Nom:          "Test",
		Prenom:       email,
		Role:         models.RolePlayer,
		SoldeCFA:     balance,
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("create player: %v", err)
	}
	return profile.ID
}

// createSession builds a session through the catalog service and returns
// it together with its initial party.
func createSession(t *testing.T, svc *CatalogService, paid bool, price int) (*models.GameSession, *models.Party) {
	t.Helper()

	session, err := svc.CreateSession(CreateSessionInput{
		GameKey:  "vrai-faux",
		Title:    "Session test",
		IsPaid:   paid,
		PriceCFA: price,
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	parties, err := svc.ListParties(session.ID)
	if err != nil {
		t.Fatalf("list parties: %v", err)
	}
	if len(parties) != 1 || !parties[0].IsInitial {
		t.Fatalf("expected exactly one initial party, got %+v", parties)
	}
	return session, &parties[0]
}

// openRun creates a run with the given questions and drives it to the
// visible state.
func openRun(t *testing.T, svc *RunService, partyID uint, questions ...QuestionInput) *models.GameRun {
	t.Helper()

	run, err := svc.CreateRun(partyID, "Manche test")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	if _, err := svc.AddQuestions(run.ID, questions); err != nil {
		t.Fatalf("add questions: %v", err)
	}
	if _, err := svc.SetStarted(run.ID, true); err != nil {
		t.Fatalf("start run: %v", err)
	}
	run, err = svc.SetVisibility(run.ID, true)
	if err != nil {
		t.Fatalf("publish run: %v", err)
	}
	return run
}

func questionIDs(t *testing.T, db *gorm.DB, runID uint) []uint {
	t.Helper()

	var questions []models.RunQuestion
	if err := db.Where("run_id = ?", runID).Order("id ASC").Find(&questions).Error; err != nil {
		t.Fatalf("load questions: %v", err)
	}
	ids := make([]uint, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	return ids
}

func mustJoin(t *testing.T, svc *CatalogService, userID, sessionID uint, partyID *uint) *models.Party {
	t.Helper()

	party, err := svc.JoinSession(userID, sessionID, partyID)
	if err != nil {
		t.Fatalf("join session: %v", err)
	}
	return party
}

func setScore(t *testing.T, db *gorm.DB, partyID, userID uint, score int) {
	t.Helper()

	res := db.Model(&models.PartyPlayer{}).
		Where("party_id = ? AND user_id = ?", partyID, userID).
		Update("score", score)
	if res.Error != nil || res.RowsAffected == 0 {
		t.Fatalf("set score: err=%v rows=%d", res.Error, res.RowsAffected)
	}
}
