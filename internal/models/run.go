package models

import "time"

// GameRun is a publishable batch of questions for one party. The four
// booleans are the stored lifecycle representation; transition rules live
// in services.RunService and every legal combination maps onto exactly one
// of draft/started/visible/closed.
type GameRun struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PartyID       uint      `gorm:"not null;index" json:"party_id"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	IsStarted     bool      `gorm:"not null;default:false" json:"is_started"`
	IsVisible     bool      `gorm:"not null;default:false" json:"is_visible"`
	IsClosed      bool      `gorm:"not null;default:false" json:"is_closed"`
	RevealAnswers bool      `gorm:"not null;default:false" json:"reveal_answers"`
	CreatedAt     time.Time `json:"created_at"`
}
