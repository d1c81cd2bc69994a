package model

import "time"

type LogAction string

type LogReason string

const (
	LogActionDelete LogAction = "delete"
	LogActionWarn   LogAction = "warn"
	LogActionMute   LogAction = "mute"
	LogActionKick   LogAction = "kick"
	LogActionBan    LogAction = "ban"
)

const (
	LogReasonLink          LogReason = "link"
	LogReasonSpam          LogReason = "spam"
	LogReasonForbiddenWord LogReason = "forbidden_word"
	LogReasonCaptchaFail   LogReason = "captcha_fail"
	LogReasonFlood         LogReason = "flood"
	LogReasonDuplicate     LogReason = "duplicate"
)

// ModerationLog is one immutable enforcement record produced by the bot.
// The console only ever displays and filters these.
type ModerationLog struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"groupId"`
	UserID    int64     `json:"userId"`
	Username  *string   `json:"username,omitempty"`
	Action    LogAction `json:"action"`
	Reason    LogReason `json:"reason"`
	Details   *string   `json:"details,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
