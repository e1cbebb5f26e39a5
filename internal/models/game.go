package models

import "time"

// Game is an immutable catalog entry for a game type ("vrai-faux", ...).
type Game struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	KeyName   string    `gorm:"size:50;uniqueIndex;not null" json:"key_name"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
