package services

import (
	"errors"
	"time"

	"github.com/ebosebastien68-maker/backhend-harmonia/internal/models"

	"gorm.io/gorm"
)

// AnswerService accepts player answers. Correctness is compared and
// scored server-side only; nothing in a response or error from this
// service carries the correct answer or the awarded score.
type AnswerService struct {
	db *gorm.DB
}

func NewAnswerService(db *gorm.DB) *AnswerService {
	return &AnswerService{db: db}
}

// PlayerQuestion is the unprivileged projection of a question.
type PlayerQuestion struct {
	ID           uint   `json:"id"`
	RunID        uint   `json:"run_id"`
	QuestionText string `json:"question_text"`
	Score        int    `json:"score"`
	Answered     bool   `json:"answered"`
}

// SubmitAnswer records one answer, at most once per (user, question).
// The existence pre-check keeps the common duplicate on the fast path;
// the unique index on user_run_answers is the backstop for the race, and
// losing that race rolls back the score increment with the insert.
func (s *AnswerService) SubmitAnswer(userID, questionID uint, answer bool) error {
	var question models.RunQuestion
	if err := s.db.First(&question, questionID).Error; err != nil {
		return NotFound("question not found")
	}

	var run models.GameRun
	if err := s.db.First(&run, question.RunID).Error; err != nil {
		return NotFound("run not found")
	}
	if run.IsClosed {
		return StateGuard("run is closed")
	}
	if !run.IsVisible {
		return StateGuard("run is not open for answers")
	}

	var membership models.PartyPlayer
	if err := s.db.Where("party_id = ? AND user_id = ?", run.PartyID, userID).
		First(&membership).Error; err != nil {
		return Authorization("join the session first")
	}

	var existing models.UserRunAnswer
	if err := s.db.Where("run_question_id = ? AND user_id = ?", questionID, userID).
		First(&existing).Error; err == nil {
		return Conflict("question already answered")
	}

	awarded := 0
	if answer == question.CorrectAnswer {
		awarded = question.Score
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		row := models.UserRunAnswer{
			RunID:         run.ID,
			RunQuestionID: questionID,
			UserID:        userID,
			Answer:        answer,
			ScoreAwarded:  awarded,
			AnsweredAt:    time.Now(),
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return tx.Model(&models.PartyPlayer{}).
			Where("id = ?", membership.ID).
			Update("score", gorm.Expr("score + ?", awarded)).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Conflict("question already answered")
		}
		return err
	}
	return nil
}

// GetRunQuestions lists a visible run's questions with the caller's
// answered flags, correct answers withheld.
func (s *AnswerService) GetRunQuestions(userID, runID uint) ([]PlayerQuestion, error) {
	var run models.GameRun
	if err := s.db.First(&run, runID).Error; err != nil {
		return nil, NotFound("run not found")
	}
	if !run.IsVisible {
		return nil, StateGuard("run is not available")
	}
	if run.IsClosed {
		return nil, StateGuard("run is closed")
	}

	var questions []models.RunQuestion
	if err := s.db.Where("run_id = ?", runID).
		Order("created_at ASC, id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	answered := map[uint]bool{}
	var answers []models.UserRunAnswer
	if err := s.db.Where("run_id = ? AND user_id = ?", runID, userID).
		Find(&answers).Error; err != nil {
		return nil, err
	}
	for _, a := range answers {
		answered[a.RunQuestionID] = true
	}

	out := make([]PlayerQuestion, len(questions))
	for i, q := range questions {
		out[i] = PlayerQuestion{
			ID:           q.ID,
			RunID:        q.RunID,
			QuestionText: q.QuestionText,
			Score:        q.Score,
			Answered:     answered[q.ID],
		}
	}
	return out, nil
}

// GetUnansweredQuestions lists what the caller can still answer across
// the party's open runs.
func (s *AnswerService) GetUnansweredQuestions(userID, partyID uint) ([]PlayerQuestion, error) {
	var party models.Party
	if err := s.db.First(&party, partyID).Error; err != nil {
		return nil, NotFound("party not found")
	}

	var questions []models.RunQuestion
	err := s.db.
		Joins("JOIN game_runs ON game_runs.id = run_questions.run_id").
		Where("game_runs.party_id = ? AND game_runs.is_visible AND NOT game_runs.is_closed", partyID).
		Where("run_questions.id NOT IN (?)",
			s.db.Model(&models.UserRunAnswer{}).
				Select("run_question_id").
				Where("user_id = ?", userID)).
		Order("run_questions.created_at ASC, run_questions.id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}

	out := make([]PlayerQuestion, len(questions))
	for i, q := range questions {
		out[i] = PlayerQuestion{
			ID:           q.ID,
			RunID:        q.RunID,
			QuestionText: q.QuestionText,
			Score:        q.Score,
		}
	}
	return out, nil
}
