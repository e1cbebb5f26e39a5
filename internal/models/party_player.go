package models

import "time"

// PartyPlayer is a user's membership in a party. Score is the cumulative
// total of awarded points, including not-yet-revealed runs; player-facing
// views never read it directly.
type PartyPlayer struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	PartyID  uint      `gorm:"not null;uniqueIndex:idx_party_player" json:"party_id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_party_player;index" json:"user_id"`
	Score    int       `gorm:"not null;default:0" json:"score"`
	JoinedAt time.Time `json:"joined_at"`
}
