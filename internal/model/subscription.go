package model

import "time"

type PlanTier string

const (
	PlanFree       PlanTier = "free"
	PlanBasic      PlanTier = "basic"
	PlanPro        PlanTier = "pro"
	PlanEnterprise PlanTier = "enterprise"
)

// Subscription is client-local configuration, not account state: the consumed
// bot API has no billing endpoint, so a default free-tier record is fabricated
// per session and never reconciled with a remote source.
type Subscription struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Plan       PlanTier  `json:"plan"`
	TotalSlots int       `json:"totalSlots"`
	UsedSlots  int       `json:"usedSlots"`
	ExpiresAt  time.Time `json:"expiresAt"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SlotOverview is derived, never stored; "used" is counted from the live
// group collection so bind/unbind actions reflect without a round trip.
type SlotOverview struct {
	Total int `json:"total"`
	Used  int `json:"used"`
	Free  int `json:"free"`
}

// SubscriptionPlan is static catalog data for the subscription page.
type SubscriptionPlan struct {
	ID       PlanTier `json:"id"`
	Name     string   `json:"name"`
	Price    int      `json:"price"`
	Slots    int      `json:"slots"`
	Features []string `json:"features"`
}
