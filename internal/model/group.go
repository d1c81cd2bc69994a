package model

import "time"

// Group is a Telegram group the bot administers. The canonical record lives
// behind the bot API; every instance held here is a session-local copy.
type Group struct {
	ID          string    `json:"id"`
	TelegramID  int64     `json:"telegramId"`
	Title       string    `json:"title"`
	Username    *string   `json:"username,omitempty"`
	MemberCount int       `json:"memberCount"`
	IsBound     bool      `json:"isBound"`
	IsPremium   bool      `json:"isPremium"`
	AdsExempt   bool      `json:"adsExempt"`
	CreatedAt   time.Time `json:"createdAt"`
}
