package model

import "time"

// AdminUser is the operator authenticated through the Telegram Mini-App
// bridge. It is resolved once at session start and immutable afterwards.
type AdminUser struct {
	ID         string    `json:"id"`
	TelegramID int64     `json:"telegramId"`
	Username   string    `json:"username"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName,omitempty"`
	Language   string    `json:"language"`
	CreatedAt  time.Time `json:"createdAt"`
}
