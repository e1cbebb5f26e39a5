package models

import "time"

// UserRunAnswer is insert-only: one row per (question, user), enforced by
// idx_user_answer as the hard backstop behind the pipeline's pre-check.
type UserRunAnswer struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	RunID         uint      `gorm:"not null;index" json:"run_id"`
	RunQuestionID uint      `gorm:"not null;uniqueIndex:idx_user_answer" json:"run_question_id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_user_answer;index" json:"user_id"`
	Answer        bool      `gorm:"not null" json:"answer"`
	ScoreAwarded  int       `gorm:"not null;default:0" json:"score_awarded"`
	AnsweredAt    time.Time `json:"answered_at"`
}
