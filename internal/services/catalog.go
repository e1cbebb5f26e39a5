package services

import (
	"errors"
	"time"

	"github.com/ebosebastien68-maker/backhend-harmonia/internal/models"

	"gorm.io/gorm"
)

type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

type SessionSummary struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	IsPaid      bool      `json:"is_paid"`
	PriceCFA    int       `json:"price_cfa"`
	CreatedAt   time.Time `json:"created_at"`
}

type MySessionSummary struct {
	SessionSummary
	MyScore int `json:"my_score"`
}

type PartyPlayerEntry struct {
	UserID   uint      `json:"user_id"`
	Nom      string    `json:"nom"`
	Prenom   string    `json:"prenom"`
	Score    int       `json:"score"`
	JoinedAt time.Time `json:"joined_at"`
}

func (s *CatalogService) ListSessions(gameKey string) ([]SessionSummary, error) {
	q := s.db.Model(&models.GameSession{}).Order("created_at DESC")
	if gameKey != "" {
		var game models.Game
		if err := s.db.Where("key_name = ?", gameKey).First(&game).Error; err != nil {
			return nil, NotFound("game not found")
		}
		q = q.Where("game_id = ?", game.ID)
	}

	var sessions []models.GameSession
	if err := q.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return summarize(sessions), nil
}

// ListAvailableSessions returns sessions the user has not joined through
// any of their parties.
func (s *CatalogService) ListAvailableSessions(userID uint, gameKey string) ([]SessionSummary, error) {
	joined := s.db.Model(&models.PartyPlayer{}).
		Select("parties.session_id").
		Joins("JOIN parties ON parties.id = party_players.party_id").
		Where("party_players.user_id = ?", userID)

	q := s.db.Model(&models.GameSession{}).
		Where("id NOT IN (?)", joined).
		Order("created_at DESC")
	if gameKey != "" {
		var game models.Game
		if err := s.db.Where("key_name = ?", gameKey).First(&game).Error; err != nil {
			return nil, NotFound("game not found")
		}
		q = q.Where("game_id = ?", game.ID)
	}

	var sessions []models.GameSession
	if err := q.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return summarize(sessions), nil
}

// ListMySessions returns joined sessions with the user's revealed score.
// The cumulative party score is never used here: it may contain points
// from runs whose answers are still hidden.
func (s *CatalogService) ListMySessions(userID uint) ([]MySessionSummary, error) {
	var sessions []models.GameSession
	err := s.db.
		Joins("JOIN parties ON parties.session_id = game_sessions.id").
		Joins("JOIN party_players ON party_players.party_id = parties.id").
		Where("party_players.user_id = ?", userID).
		Group("game_sessions.id").
		Order("game_sessions.created_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	result := make([]MySessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		var myScore int
		s.db.Raw(`
			SELECT COALESCE(SUM(a.score_awarded), 0)
			FROM user_run_answers a
			JOIN game_runs r ON r.id = a.run_id
			JOIN parties p ON p.id = r.party_id
			WHERE a.user_id = ? AND p.session_id = ?
			  AND r.is_closed AND r.reveal_answers`,
			userID, sess.ID).Scan(&myScore)

		result = append(result, MySessionSummary{
			SessionSummary: SessionSummary{
				ID:          sess.ID,
				Title:       sess.Title,
				Description: sess.Description,
				Category:    sess.Category,
				IsPaid:      sess.IsPaid,
				PriceCFA:    sess.PriceCFA,
				CreatedAt:   sess.CreatedAt,
			},
			MyScore: myScore,
		})
	}
	return result, nil
}

func (s *CatalogService) ListParties(sessionID uint) ([]models.Party, error) {
	var session models.GameSession
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return nil, NotFound("session not found")
	}

	var parties []models.Party
	if err := s.db.Where("session_id = ?", sessionID).
		Order("is_initial DESC, created_at ASC").
		Find(&parties).Error; err != nil {
		return nil, err
	}
	return parties, nil
}

// JoinSession enrolls the user into a party of the session. The paid
// debit and the membership insert commit or roll back together; a lost
// duplicate-key race is treated as the idempotent re-join it is.
func (s *CatalogService) JoinSession(userID, sessionID uint, partyID *uint) (*models.Party, error) {
	var session models.GameSession
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return nil, NotFound("session not found")
	}

	var target models.Party
	if partyID != nil {
		if err := s.db.Where("id = ? AND session_id = ?", *partyID, sessionID).
			First(&target).Error; err != nil {
			return nil, NotFound("party not found in this session")
		}
	} else {
		if err := s.db.Where("session_id = ? AND is_initial = ?", sessionID, true).
			First(&target).Error; err != nil {
			return nil, NotFound("session has no initial party")
		}
	}

	var existing models.PartyPlayer
	if err := s.db.Where("party_id = ? AND user_id = ?", target.ID, userID).
		First(&existing).Error; err == nil {
		return &target, nil
	}

	if !target.IsInitial {
		if err := s.checkEligibility(userID, sessionID, &target); err != nil {
			return nil, err
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if session.IsPaid && session.PriceCFA > 0 {
			var joined int64
			if err := tx.Model(&models.PartyPlayer{}).
				Joins("JOIN parties ON parties.id = party_players.party_id").
				Where("parties.session_id = ? AND party_players.user_id = ?", sessionID, userID).
				Count(&joined).Error; err != nil {
				return err
			}

			// First entry into the session: one debit, conditional on
			// sufficient balance at write time.
			if joined == 0 {
				res := tx.Model(&models.Profile{}).
					Where("id = ? AND solde_cfa >= ?", userID, session.PriceCFA).
					Update("solde_cfa", gorm.Expr("solde_cfa - ?", session.PriceCFA))
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return Validation("insufficient balance")
				}
			}
		}

		member := models.PartyPlayer{
			PartyID:  target.ID,
			UserID:   userID,
			Score:    0,
			JoinedAt: time.Now(),
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// concurrent duplicate join; the rollback undid any debit
			return &target, nil
		}
		return nil, err
	}

	return &target, nil
}

// checkEligibility applies a non-initial party's entry gate. Standings
// are always measured against the session's initial party.
func (s *CatalogService) checkEligibility(userID, sessionID uint, target *models.Party) error {
	if target.MinScore == nil && target.MinRank == nil {
		return nil
	}

	var initial models.Party
	if err := s.db.Where("session_id = ? AND is_initial = ?", sessionID, true).
		First(&initial).Error; err != nil {
		return NotFound("session has no initial party")
	}

	var standing models.PartyPlayer
	if err := s.db.Where("party_id = ? AND user_id = ?", initial.ID, userID).
		First(&standing).Error; err != nil {
		return Authorization("party requires a standing in the initial party")
	}

	if target.MinScore != nil && standing.Score < *target.MinScore {
		return Authorization("score too low for this party")
	}

	if target.MinRank != nil {
		var better int64
		if err := s.db.Model(&models.PartyPlayer{}).
			Where("party_id = ? AND score > ?", initial.ID, standing.Score).
			Count(&better).Error; err != nil {
			return err
		}
		if int(better)+1 > *target.MinRank {
			return Authorization("rank too low for this party")
		}
	}

	return nil
}

type CreateSessionInput struct {
	GameKey     string
	Title       string
	Description string
	Category    string
	IsPaid      bool
	PriceCFA    int
}

// CreateSession creates a session together with its initial party.
func (s *CatalogService) CreateSession(in CreateSessionInput) (*models.GameSession, error) {
	var game models.Game
	if err := s.db.Where("key_name = ?", in.GameKey).First(&game).Error; err != nil {
		return nil, NotFound("game not found")
	}
	if in.Title == "" {
		return nil, Validation("title required")
	}
	if in.IsPaid && in.PriceCFA <= 0 {
		return nil, Validation("paid session requires a positive price")
	}

	session := models.GameSession{
		GameID:      game.ID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		IsPaid:      in.IsPaid,
		PriceCFA:    in.PriceCFA,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&session).Error; err != nil {
			return err
		}
		initial := models.Party{
			SessionID: session.ID,
			Name:      "Principale",
			IsInitial: true,
		}
		return tx.Create(&initial).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

type CreatePartyInput struct {
	SessionID uint
	Name      string
	MinScore  *int
	MinRank   *int
}

func (s *CatalogService) CreateParty(in CreatePartyInput) (*models.Party, error) {
	var session models.GameSession
	if err := s.db.First(&session, in.SessionID).Error; err != nil {
		return nil, NotFound("session not found")
	}
	if in.Name == "" {
		return nil, Validation("name required")
	}

	party := models.Party{
		SessionID: in.SessionID,
		Name:      in.Name,
		IsInitial: false,
		MinScore:  in.MinScore,
		MinRank:   in.MinRank,
	}
	if err := s.db.Create(&party).Error; err != nil {
		return nil, err
	}
	return &party, nil
}

// DeleteSession removes the session and everything under it, refusing
// while any child run is mid-play.
func (s *CatalogService) DeleteSession(sessionID uint) error {
	var session models.GameSession
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return NotFound("session not found")
	}

	var midPlay int64
	if err := s.db.Model(&models.GameRun{}).
		Joins("JOIN parties ON parties.id = game_runs.party_id").
		Where("parties.session_id = ? AND game_runs.is_started AND NOT game_runs.is_closed", sessionID).
		Count(&midPlay).Error; err != nil {
		return err
	}
	if midPlay > 0 {
		return StateGuard("session has a run in progress")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		runIDs := tx.Model(&models.GameRun{}).
			Select("game_runs.id").
			Joins("JOIN parties ON parties.id = game_runs.party_id").
			Where("parties.session_id = ?", sessionID)
		if err := tx.Where("run_id IN (?)", runIDs).Delete(&models.UserRunAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("run_id IN (?)", runIDs).Delete(&models.RunQuestion{}).Error; err != nil {
			return err
		}

		partyIDs := tx.Model(&models.Party{}).Select("id").Where("session_id = ?", sessionID)
		if err := tx.Where("party_id IN (?)", partyIDs).Delete(&models.GameRun{}).Error; err != nil {
			return err
		}
		if err := tx.Where("party_id IN (?)", partyIDs).Delete(&models.PartyPlayer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.Party{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.GameSession{}, sessionID).Error
	})
}

// DeleteParty removes a non-initial party and everything under it.
func (s *CatalogService) DeleteParty(partyID uint) error {
	var party models.Party
	if err := s.db.First(&party, partyID).Error; err != nil {
		return NotFound("party not found")
	}
	if party.IsInitial {
		return StateGuard("initial party cannot be deleted")
	}

	var midPlay int64
	if err := s.db.Model(&models.GameRun{}).
		Where("party_id = ? AND is_started AND NOT is_closed", partyID).
		Count(&midPlay).Error; err != nil {
		return err
	}
	if midPlay > 0 {
		return StateGuard("party has a run in progress")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		runIDs := tx.Model(&models.GameRun{}).Select("id").Where("party_id = ?", partyID)
		if err := tx.Where("run_id IN (?)", runIDs).Delete(&models.UserRunAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("run_id IN (?)", runIDs).Delete(&models.RunQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("party_id = ?", partyID).Delete(&models.GameRun{}).Error; err != nil {
			return err
		}
		if err := tx.Where("party_id = ?", partyID).Delete(&models.PartyPlayer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Party{}, partyID).Error
	})
}

func (s *CatalogService) GetPartyPlayers(partyID uint) ([]PartyPlayerEntry, error) {
	var party models.Party
	if err := s.db.First(&party, partyID).Error; err != nil {
		return nil, NotFound("party not found")
	}

	var entries []PartyPlayerEntry
	err := s.db.Model(&models.PartyPlayer{}).
		Select("party_players.user_id, profiles.nom, profiles.prenom, party_players.score, party_players.joined_at").
		Joins("JOIN profiles ON profiles.id = party_players.user_id").
		Where("party_players.party_id = ?", partyID).
		Order("party_players.score DESC, party_players.joined_at ASC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func summarize(sessions []models.GameSession) []SessionSummary {
	result := make([]SessionSummary, len(sessions))
	for i, sess := range sessions {
		result[i] = SessionSummary{
			ID:          sess.ID,
			Title:       sess.Title,
			Description: sess.Description,
			Category:    sess.Category,
			IsPaid:      sess.IsPaid,
			PriceCFA:    sess.PriceCFA,
			CreatedAt:   sess.CreatedAt,
		}
	}
	return result
}
