package model

import "time"

type WordCategory string

const (
	WordCategorySwear  WordCategory = "swear"
	WordCategoryScam   WordCategory = "scam"
	WordCategoryCrypto WordCategory = "crypto"
	WordCategoryCustom WordCategory = "custom"
)

// ForbiddenWord is a literal word or phrase trigger belonging to exactly one
// group. Entries are appended and removed individually, never edited in place.
type ForbiddenWord struct {
	ID        string       `json:"id"`
	GroupID   string       `json:"groupId"`
	Word      string       `json:"word"`
	Category  WordCategory `json:"category"`
	CreatedAt time.Time    `json:"createdAt"`
}

func ValidWordCategory(category WordCategory) bool {
	switch category {
	case WordCategorySwear, WordCategoryScam, WordCategoryCrypto, WordCategoryCustom:
		return true
	default:
		return false
	}
}
