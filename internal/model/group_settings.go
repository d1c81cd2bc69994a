package model

import "time"

type WarnAction string

type CaptchaType string

type CaptchaFailAction string

const (
	WarnActionMute WarnAction = "mute"
	WarnActionKick WarnAction = "kick"
)

const (
	CaptchaTypeButton CaptchaType = "button"
	CaptchaTypeMath   CaptchaType = "math"
)

const (
	CaptchaFailKick CaptchaFailAction = "kick"
	CaptchaFailMute CaptchaFailAction = "mute"
)

// GroupSettings is the flat bag of moderation toggles and thresholds for one
// group. Records are created lazily with DefaultGroupSettings the first time
// a group is edited and are never deleted independently of their group.
type GroupSettings struct {
	ID      string `json:"id"`
	GroupID string `json:"groupId"`

	DeleteLinks     bool `json:"deleteLinks"`
	DeleteMentions  bool `json:"deleteMentions"`
	DeleteForwarded bool `json:"deleteForwarded"`
	AllowPhotos     bool `json:"allowPhotos"`
	AllowVideos     bool `json:"allowVideos"`
	AllowStickers   bool `json:"allowStickers"`
	AllowGifs       bool `json:"allowGifs"`

	FloodControlEnabled  bool       `json:"floodControlEnabled"`
	FloodMessagesLimit   int        `json:"floodMessagesLimit"`
	FloodIntervalSeconds int        `json:"floodIntervalSeconds"`
	DuplicateDetection   bool       `json:"duplicateDetection"`
	WarnSystemEnabled    bool       `json:"warnSystemEnabled"`
	WarnLimit            int        `json:"warnLimit"`
	ActionOnLimit        WarnAction `json:"actionOnLimit"`

	CaptchaEnabled          bool              `json:"captchaEnabled"`
	CaptchaType             CaptchaType       `json:"captchaType"`
	CaptchaTimeoutSeconds   int               `json:"captchaTimeoutSeconds"`
	CaptchaFailAction       CaptchaFailAction `json:"captchaFailAction"`
	NewUserReadOnly         bool              `json:"newUserReadOnly"`
	ReadOnlyDurationSeconds int               `json:"readOnlyDurationSeconds"`

	SilentMode  bool   `json:"silentMode"`
	BotLanguage string `json:"botLanguage"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// SettingsPatch is a partial GroupSettings: nil fields are left untouched.
// The same shape travels to the bot API as the write payload.
type SettingsPatch struct {
	DeleteLinks     *bool `json:"deleteLinks,omitempty"`
	DeleteMentions  *bool `json:"deleteMentions,omitempty"`
	DeleteForwarded *bool `json:"deleteForwarded,omitempty"`
	AllowPhotos     *bool `json:"allowPhotos,omitempty"`
	AllowVideos     *bool `json:"allowVideos,omitempty"`
	AllowStickers   *bool `json:"allowStickers,omitempty"`
	AllowGifs       *bool `json:"allowGifs,omitempty"`

	FloodControlEnabled  *bool       `json:"floodControlEnabled,omitempty"`
	FloodMessagesLimit   *int        `json:"floodMessagesLimit,omitempty"`
	FloodIntervalSeconds *int        `json:"floodIntervalSeconds,omitempty"`
	DuplicateDetection   *bool       `json:"duplicateDetection,omitempty"`
	WarnSystemEnabled    *bool       `json:"warnSystemEnabled,omitempty"`
	WarnLimit            *int        `json:"warnLimit,omitempty"`
	ActionOnLimit        *WarnAction `json:"actionOnLimit,omitempty"`

	CaptchaEnabled          *bool              `json:"captchaEnabled,omitempty"`
	CaptchaType             *CaptchaType       `json:"captchaType,omitempty"`
	CaptchaTimeoutSeconds   *int               `json:"captchaTimeoutSeconds,omitempty"`
	CaptchaFailAction       *CaptchaFailAction `json:"captchaFailAction,omitempty"`
	NewUserReadOnly         *bool              `json:"newUserReadOnly,omitempty"`
	ReadOnlyDurationSeconds *int               `json:"readOnlyDurationSeconds,omitempty"`

	SilentMode  *bool   `json:"silentMode,omitempty"`
	BotLanguage *string `json:"botLanguage,omitempty"`
}

// DefaultGroupSettings returns the documented defaults for a group that has
// never been configured.
func DefaultGroupSettings(groupID string) GroupSettings {
	return GroupSettings{
		ID:      "s" + groupID,
		GroupID: groupID,

		DeleteLinks:     false,
		DeleteMentions:  false,
		DeleteForwarded: false,
		AllowPhotos:     true,
		AllowVideos:     true,
		AllowStickers:   true,
		AllowGifs:       true,

		FloodControlEnabled:  false,
		FloodMessagesLimit:   5,
		FloodIntervalSeconds: 10,
		DuplicateDetection:   false,
		WarnSystemEnabled:    false,
		WarnLimit:            3,
		ActionOnLimit:        WarnActionMute,

		CaptchaEnabled:          false,
		CaptchaType:             CaptchaTypeButton,
		CaptchaTimeoutSeconds:   60,
		CaptchaFailAction:       CaptchaFailKick,
		NewUserReadOnly:         false,
		ReadOnlyDurationSeconds: 300,

		SilentMode:  false,
		BotLanguage: "uz",
	}
}

// Apply merges the non-nil patch fields into s.
func (p SettingsPatch) Apply(s *GroupSettings) {
	if s == nil {
		return
	}

	if p.DeleteLinks != nil {
		s.DeleteLinks = *p.DeleteLinks
	}
	if p.DeleteMentions != nil {
		s.DeleteMentions = *p.DeleteMentions
	}
	if p.DeleteForwarded != nil {
		s.DeleteForwarded = *p.DeleteForwarded
	}
	if p.AllowPhotos != nil {
		s.AllowPhotos = *p.AllowPhotos
	}
	if p.AllowVideos != nil {
		s.AllowVideos = *p.AllowVideos
	}
	if p.AllowStickers != nil {
		s.AllowStickers = *p.AllowStickers
	}
	if p.AllowGifs != nil {
		s.AllowGifs = *p.AllowGifs
	}
	if p.FloodControlEnabled != nil {
		s.FloodControlEnabled = *p.FloodControlEnabled
	}
	if p.FloodMessagesLimit != nil {
		s.FloodMessagesLimit = *p.FloodMessagesLimit
	}
	if p.FloodIntervalSeconds != nil {
		s.FloodIntervalSeconds = *p.FloodIntervalSeconds
	}
	if p.DuplicateDetection != nil {
		s.DuplicateDetection = *p.DuplicateDetection
	}
	if p.WarnSystemEnabled != nil {
		s.WarnSystemEnabled = *p.WarnSystemEnabled
	}
	if p.WarnLimit != nil {
		s.WarnLimit = *p.WarnLimit
	}
	if p.ActionOnLimit != nil {
		s.ActionOnLimit = *p.ActionOnLimit
	}
	if p.CaptchaEnabled != nil {
		s.CaptchaEnabled = *p.CaptchaEnabled
	}
	if p.CaptchaType != nil {
		s.CaptchaType = *p.CaptchaType
	}
	if p.CaptchaTimeoutSeconds != nil {
		s.CaptchaTimeoutSeconds = *p.CaptchaTimeoutSeconds
	}
	if p.CaptchaFailAction != nil {
		s.CaptchaFailAction = *p.CaptchaFailAction
	}
	if p.NewUserReadOnly != nil {
		s.NewUserReadOnly = *p.NewUserReadOnly
	}
	if p.ReadOnlyDurationSeconds != nil {
		s.ReadOnlyDurationSeconds = *p.ReadOnlyDurationSeconds
	}
	if p.SilentMode != nil {
		s.SilentMode = *p.SilentMode
	}
	if p.BotLanguage != nil {
		s.BotLanguage = *p.BotLanguage
	}
}
