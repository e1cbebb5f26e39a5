package services

import (
	"time"

	"github.com/ebosebastien68-maker/backhend-harmonia/internal/models"

	"gorm.io/gorm"
)

// ResultsService derives the player-visible views. Every projection here
// honors the reveal gate: correct answers and awarded scores appear only
// for runs that are closed with reveal_answers set.
type ResultsService struct {
	db *gorm.DB
}

func NewResultsService(db *gorm.DB) *ResultsService {
	return &ResultsService{db: db}
}

type MyAnswer struct {
	QuestionID    uint      `json:"question_id"`
	RunID         uint      `json:"run_id"`
	QuestionText  string    `json:"question_text"`
	Answer        bool      `json:"answer"`
	AnsweredAt    time.Time `json:"answered_at"`
	CorrectAnswer *bool     `json:"correct_answer,omitempty"`
	ScoreAwarded  *int      `json:"score_awarded,omitempty"`
}

type QuestionResult struct {
	QuestionID    uint   `json:"question_id"`
	QuestionText  string `json:"question_text"`
	Answer        bool   `json:"answer"`
	CorrectAnswer bool   `json:"correct_answer"`
	ScoreAwarded  int    `json:"score_awarded"`
}

type RunResult struct {
	RunID    uint             `json:"run_id"`
	Title    string           `json:"title"`
	Pending  bool             `json:"pending"`
	RunScore int              `json:"run_score"`
	Answers  []QuestionResult `json:"answers,omitempty"`
}

type MyResults struct {
	PartyID    uint        `json:"party_id"`
	TotalScore int         `json:"total_score"`
	Runs       []RunResult `json:"runs"`
}

type HistoryEntry struct {
	RunID     uint      `json:"run_id"`
	Title     string    `json:"title"`
	Pending   bool      `json:"pending"`
	Questions int64     `json:"questions"`
	MyAnswers int64     `json:"my_answers"`
	MyScore   int       `json:"my_score"`
	CreatedAt time.Time `json:"created_at"`
}

type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	UserID        uint   `json:"user_id"`
	Nom           string `json:"nom"`
	Prenom        string `json:"prenom"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	Score         int    `json:"score"`
	IsCurrentUser bool   `json:"is_current_user"`
}

// GetMyAnswers returns the caller's submitted answers across the party's
// runs. Correctness and score are attached only once the owning run is
// revealed.
func (s *ResultsService) GetMyAnswers(userID, partyID uint) ([]MyAnswer, error) {
	var party models.Party
	if err := s.db.First(&party, partyID).Error; err != nil {
		return nil, NotFound("party not found")
	}

	type row struct {
		QuestionID    uint
		RunID         uint
		QuestionText  string
		Answer        bool
		AnsweredAt    time.Time
		CorrectAnswer bool
		ScoreAwarded  int
		Revealed      bool
	}
	var rows []row
	err := s.db.Raw(`
		SELECT q.id AS question_id, r.id AS run_id, q.question_text,
		       a.answer, a.answered_at, q.correct_answer, a.score_awarded,
		       (r.is_closed AND r.reveal_answers) AS revealed
		FROM user_run_answers a
		JOIN run_questions q ON q.id = a.run_question_id
		JOIN game_runs r ON r.id = a.run_id
		WHERE a.user_id = ? AND r.party_id = ?
		ORDER BY a.answered_at ASC`,
		userID, partyID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]MyAnswer, len(rows))
	for i, r := range rows {
		out[i] = MyAnswer{
			QuestionID:   r.QuestionID,
			RunID:        r.RunID,
			QuestionText: r.QuestionText,
			Answer:       r.Answer,
			AnsweredAt:   r.AnsweredAt,
		}
		if r.Revealed {
			correct := r.CorrectAnswer
			awarded := r.ScoreAwarded
			out[i].CorrectAnswer = &correct
			out[i].ScoreAwarded = &awarded
		}
	}
	return out, nil
}

// GetMyResults returns per-run results for the caller. Unrevealed runs
// appear as pending with no answer detail and contribute nothing to the
// total.
func (s *ResultsService) GetMyResults(userID, partyID uint) (*MyResults, error) {
	var party models.Party
	if err := s.db.First(&party, partyID).Error; err != nil {
		return nil, NotFound("party not found")
	}

	var runs []models.GameRun
	if err := s.db.Where("party_id = ? AND is_started", partyID).
		Order("created_at ASC").
		Find(&runs).Error; err != nil {
		return nil, err
	}

	results := &MyResults{PartyID: partyID, Runs: make([]RunResult, 0, len(runs))}
	for _, run := range runs {
		rr := RunResult{RunID: run.ID, Title: run.Title}

		if !run.IsClosed || !run.RevealAnswers {
			rr.Pending = true
			results.Runs = append(results.Runs, rr)
			continue
		}

		type row struct {
			QuestionID    uint
			QuestionText  string
			Answer        bool
			CorrectAnswer bool
			ScoreAwarded  int
		}
		var rows []row
		err := s.db.Raw(`
			SELECT q.id AS question_id, q.question_text, a.answer,
			       q.correct_answer, a.score_awarded
			FROM user_run_answers a
			JOIN run_questions q ON q.id = a.run_question_id
			WHERE a.run_id = ? AND a.user_id = ?
			ORDER BY q.created_at ASC, q.id ASC`,
			run.ID, userID).Scan(&rows).Error
		if err != nil {
			return nil, err
		}

		for _, r := range rows {
			rr.Answers = append(rr.Answers, QuestionResult{
				QuestionID:    r.QuestionID,
				QuestionText:  r.QuestionText,
				Answer:        r.Answer,
				CorrectAnswer: r.CorrectAnswer,
				ScoreAwarded:  r.ScoreAwarded,
			})
			rr.RunScore += r.ScoreAwarded
		}
		results.TotalScore += rr.RunScore
		results.Runs = append(results.Runs, rr)
	}
	return results, nil
}

// GetPartyHistory lists the party's runs with the caller's participation.
// Scores stay at zero until a run is revealed.
func (s *ResultsService) GetPartyHistory(userID, partyID uint) ([]HistoryEntry, error) {
	var party models.Party
	if err := s.db.First(&party, partyID).Error; err != nil {
		return nil, NotFound("party not found")
	}

	var runs []models.GameRun
	if err := s.db.Where("party_id = ? AND is_started", partyID).
		Order("created_at DESC").
		Find(&runs).Error; err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(runs))
	for _, run := range runs {
		entry := HistoryEntry{
			RunID:     run.ID,
			Title:     run.Title,
			Pending:   !run.IsClosed || !run.RevealAnswers,
			CreatedAt: run.CreatedAt,
		}
		s.db.Model(&models.RunQuestion{}).
			Where("run_id = ?", run.ID).Count(&entry.Questions)
		s.db.Model(&models.UserRunAnswer{}).
			Where("run_id = ? AND user_id = ?", run.ID, userID).Count(&entry.MyAnswers)

		if !entry.Pending {
			var score int
			s.db.Raw(`
				SELECT COALESCE(SUM(score_awarded), 0)
				FROM user_run_answers
				WHERE run_id = ? AND user_id = ?`,
				run.ID, userID).Scan(&score)
			entry.MyScore = score
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// GetLeaderboard ranks the run's party members by their score in that
// run alone. Available only once the run is revealed; per-run sums would
// otherwise leak correctness.
func (s *ResultsService) GetLeaderboard(userID, runID uint) ([]LeaderboardEntry, error) {
	var run models.GameRun
	if err := s.db.First(&run, runID).Error; err != nil {
		return nil, NotFound("run not found")
	}
	if !run.IsClosed || !run.RevealAnswers {
		return nil, StateGuard("results pending")
	}

	type row struct {
		UserID    uint
		Nom       string
		Prenom    string
		AvatarURL string
		Score     int
	}
	var rows []row
	err := s.db.Raw(`
		SELECT pp.user_id, pr.nom, pr.prenom, pr.avatar_url,
		       COALESCE(SUM(a.score_awarded), 0) AS score
		FROM party_players pp
		JOIN profiles pr ON pr.id = pp.user_id
		LEFT JOIN user_run_answers a
		       ON a.user_id = pp.user_id AND a.run_id = ?
		WHERE pp.party_id = ?
		GROUP BY pp.user_id, pr.nom, pr.prenom, pr.avatar_url
		ORDER BY score DESC, pp.user_id ASC`,
		runID, run.PartyID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(rows))
	for i, r := range rows {
		entries[i] = LeaderboardEntry{
			Rank:          i + 1,
			UserID:        r.UserID,
			Nom:           r.Nom,
			Prenom:        r.Prenom,
			AvatarURL:     r.AvatarURL,
			Score:         r.Score,
			IsCurrentUser: r.UserID == userID,
		}
	}
	return entries, nil
}
