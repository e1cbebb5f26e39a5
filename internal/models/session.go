package models

import "time"

type GameSession struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	GameID      uint      `gorm:"not null;index" json:"game_id"`
	Game        Game      `gorm:"foreignKey:GameID" json:"game,omitempty"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Category    string    `gorm:"size:100" json:"category,omitempty"`
	IsPaid      bool      `gorm:"not null;default:false" json:"is_paid"`
	PriceCFA    int       `gorm:"not null;default:0" json:"price_cfa"`
	Parties     []Party   `gorm:"foreignKey:SessionID" json:"parties,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
