package models

import "time"

// Party groups players inside a session. Every session owns exactly one
// initial party; non-initial parties may gate entry on min_score/min_rank
// measured against the initial party's standings.
type Party struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"not null;index" json:"session_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	IsInitial bool      `gorm:"not null;default:false" json:"is_initial"`
	MinScore  *int      `json:"min_score,omitempty"`
	MinRank   *int      `json:"min_rank,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
