package models

import "time"

// RunQuestion is a true/false question. CorrectAnswer never reaches a
// player-facing payload before the owning run is closed and revealed;
// the model itself refuses to serialize it, projections opt in explicitly.
type RunQuestion struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	RunID         uint      `gorm:"not null;index" json:"run_id"`
	QuestionText  string    `gorm:"type:text;not null" json:"question_text"`
	CorrectAnswer bool      `gorm:"not null" json:"-"`
	Score         int       `gorm:"not null;default:10" json:"score"`
	CreatedAt     time.Time `json:"created_at"`
}

const DefaultQuestionScore = 10
