package services

import (
	"github.com/ebosebastien68-maker/backhend-harmonia/internal/models"

	"gorm.io/gorm"
)

// RunService owns the run lifecycle:
//
//	draft -> started -> visible -> closed (reveal on)
//	closed -> visible (reopen, reveal off)
//	started -> draft (reset, only while hidden)
//
// Each transition is one conditional single-row UPDATE whose WHERE clause
// carries the guard, so a stale read can never bypass it.
type RunService struct {
	db *gorm.DB
}

func NewRunService(db *gorm.DB) *RunService {
	return &RunService{db: db}
}

type runState int

const (
	runDraft runState = iota
	runStarted
	runVisible
	runClosed
)

func stateOf(r *models.GameRun) runState {
	switch {
	case r.IsClosed:
		return runClosed
	case r.IsVisible:
		return runVisible
	case r.IsStarted:
		return runStarted
	default:
		return runDraft
	}
}

func (st runState) String() string {
	switch st {
	case runStarted:
		return "started"
	case runVisible:
		return "visible"
	case runClosed:
		return "closed"
	default:
		return "draft"
	}
}

type QuestionInput struct {
	Text    string `json:"question_text"`
	Correct bool   `json:"correct_answer"`
	Score   int    `json:"score"`
}

// AdminQuestion is the privileged projection; it is the only place the
// correct answer is ever serialized outside the reveal gate.
type AdminQuestion struct {
	ID            uint   `json:"id"`
	RunID         uint   `json:"run_id"`
	QuestionText  string `json:"question_text"`
	CorrectAnswer bool   `json:"correct_answer"`
	Score         int    `json:"score"`
}

type RunStatistics struct {
	RunID     uint  `json:"run_id"`
	Questions int64 `json:"questions"`
	Answers   int64 `json:"answers"`
	Players   int64 `json:"players"`
}

func (s *RunService) CreateRun(partyID uint, title string) (*models.GameRun, error) {
	var party models.Party
	if err := s.db.First(&party, partyID).Error; err != nil {
		return nil, NotFound("party not found")
	}
	if title == "" {
		return nil, Validation("title required")
	}

	run := models.GameRun{PartyID: partyID, Title: title}
	if err := s.db.Create(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// AddQuestions appends questions to a draft run. Rejected once the run is
// started or visible.
func (s *RunService) AddQuestions(runID uint, inputs []QuestionInput) ([]AdminQuestion, error) {
	if len(inputs) == 0 {
		return nil, Validation("at least one question required")
	}
	for _, in := range inputs {
		if in.Text == "" {
			return nil, Validation("question text required")
		}
		if in.Score < 0 {
			return nil, Validation("score cannot be negative")
		}
	}

	var created []models.RunQuestion
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var run models.GameRun
		if err := tx.First(&run, runID).Error; err != nil {
			return NotFound("run not found")
		}
		if run.IsStarted || run.IsVisible {
			return StateGuard("questions can only be added to a draft run")
		}

		for _, in := range inputs {
			score := in.Score
			if score == 0 {
				score = models.DefaultQuestionScore
			}
			q := models.RunQuestion{
				RunID:         runID,
				QuestionText:  in.Text,
				CorrectAnswer: in.Correct,
				Score:         score,
			}
			if err := tx.Create(&q).Error; err != nil {
				return err
			}
			created = append(created, q)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]AdminQuestion, len(created))
	for i, q := range created {
		out[i] = AdminQuestion{
			ID:            q.ID,
			RunID:         q.RunID,
			QuestionText:  q.QuestionText,
			CorrectAnswer: q.CorrectAnswer,
			Score:         q.Score,
		}
	}
	return out, nil
}

func (s *RunService) SetStarted(runID uint, started bool) (*models.GameRun, error) {
	if started {
		var questions int64
		if err := s.db.Model(&models.RunQuestion{}).
			Where("run_id = ?", runID).Count(&questions).Error; err != nil {
			return nil, err
		}
		if questions == 0 {
			return nil, StateGuard("run has no questions")
		}

		return s.flip(runID,
			"NOT is_visible AND NOT is_closed",
			map[string]interface{}{"is_started": true},
			"run can only be started from draft")
	}

	// reset, only while still hidden
	return s.flip(runID,
		"NOT is_visible AND NOT is_closed",
		map[string]interface{}{"is_started": false},
		"run can only be reset while hidden")
}

func (s *RunService) SetVisibility(runID uint, visible bool) (*models.GameRun, error) {
	if visible {
		return s.flip(runID,
			"is_started AND NOT is_closed",
			map[string]interface{}{"is_visible": true},
			"run must be started and not closed to become visible")
	}

	return s.flip(runID,
		"NOT is_closed",
		map[string]interface{}{"is_visible": false},
		"closed run cannot be hidden")
}

// CloseRun closes (and reveals) or reopens (and re-hides). The reveal
// flag only ever changes here, together with is_closed, which keeps
// reveal_answers => is_closed true at all times.
func (s *RunService) CloseRun(runID uint, closed bool) (*models.GameRun, error) {
	if closed {
		return s.flip(runID,
			"is_started AND is_visible",
			map[string]interface{}{"is_closed": true, "reveal_answers": true},
			"run must be visible to be closed")
	}

	return s.flip(runID,
		"is_closed",
		map[string]interface{}{"is_closed": false, "reveal_answers": false},
		"run is not closed")
}

// flip performs one guarded boolean transition. The guard is part of the
// UPDATE itself; zero affected rows means the run vanished or the guard
// failed at write time.
func (s *RunService) flip(runID uint, guard string, updates map[string]interface{}, guardMsg string) (*models.GameRun, error) {
	res := s.db.Model(&models.GameRun{}).
		Where("id = ?", runID).
		Where(guard).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}

	var run models.GameRun
	if err := s.db.First(&run, runID).Error; err != nil {
		return nil, NotFound("run not found")
	}
	if res.RowsAffected == 0 {
		return nil, StateGuard(guardMsg + " (run is " + stateOf(&run).String() + ")")
	}
	return &run, nil
}

// DeleteRun is refused mid-play (started and not yet closed).
func (s *RunService) DeleteRun(runID uint) error {
	var run models.GameRun
	if err := s.db.First(&run, runID).Error; err != nil {
		return NotFound("run not found")
	}
	if run.IsStarted && !run.IsClosed {
		return StateGuard("run is in progress")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("run_id = ?", runID).Delete(&models.UserRunAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("run_id = ?", runID).Delete(&models.RunQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.GameRun{}, runID).Error
	})
}

// DeleteQuestion is only legal while the owning run is a draft.
func (s *RunService) DeleteQuestion(questionID uint) error {
	var question models.RunQuestion
	if err := s.db.First(&question, questionID).Error; err != nil {
		return NotFound("question not found")
	}

	var run models.GameRun
	if err := s.db.First(&run, question.RunID).Error; err != nil {
		return NotFound("run not found")
	}
	if stateOf(&run) != runDraft {
		return StateGuard("questions can only be deleted from a draft run")
	}

	return s.db.Delete(&models.RunQuestion{}, questionID).Error
}

func (s *RunService) ListRuns(partyID uint) ([]models.GameRun, error) {
	var party models.Party
	if err := s.db.First(&party, partyID).Error; err != nil {
		return nil, NotFound("party not found")
	}

	var runs []models.GameRun
	if err := s.db.Where("party_id = ?", partyID).
		Order("created_at DESC").
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (s *RunService) ListVisibleRuns(partyID uint) ([]models.GameRun, error) {
	var party models.Party
	if err := s.db.First(&party, partyID).Error; err != nil {
		return nil, NotFound("party not found")
	}

	var runs []models.GameRun
	if err := s.db.Where("party_id = ? AND is_visible", partyID).
		Order("created_at DESC").
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// ListRunQuestions is the privileged view, correct answers included.
func (s *RunService) ListRunQuestions(runID uint) ([]AdminQuestion, error) {
	var run models.GameRun
	if err := s.db.First(&run, runID).Error; err != nil {
		return nil, NotFound("run not found")
	}

	var questions []models.RunQuestion
	if err := s.db.Where("run_id = ?", runID).
		Order("created_at ASC, id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	out := make([]AdminQuestion, len(questions))
	for i, q := range questions {
		out[i] = AdminQuestion{
			ID:            q.ID,
			RunID:         q.RunID,
			QuestionText:  q.QuestionText,
			CorrectAnswer: q.CorrectAnswer,
			Score:         q.Score,
		}
	}
	return out, nil
}

func (s *RunService) GetStatistics(runID uint) (*RunStatistics, error) {
	var run models.GameRun
	if err := s.db.First(&run, runID).Error; err != nil {
		return nil, NotFound("run not found")
	}

	stats := RunStatistics{RunID: runID}
	if err := s.db.Model(&models.RunQuestion{}).
		Where("run_id = ?", runID).Count(&stats.Questions).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.UserRunAnswer{}).
		Where("run_id = ?", runID).Count(&stats.Answers).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.PartyPlayer{}).
		Where("party_id = ?", run.PartyID).Count(&stats.Players).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
