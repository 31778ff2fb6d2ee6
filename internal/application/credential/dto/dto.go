package dto

import "time"

// IDCardDTO is the card view returned to its holder.
type IDCardDTO struct {
	ID            uint      `json:"id"`
	UserID        uint      `json:"user_id"`
	IDNumber      string    `json:"id_number"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	FirstTime     bool      `json:"first_time"`
	IsActive      bool      `json:"is_active"`
	Expired       bool      `json:"expired"`
	ExpiredAt     *string   `json:"expired_at"`
	DaysRemaining *int      `json:"days_remaining"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// VerificationDTO is the public answer to an id-number lookup. An unknown
// number is reported with Valid false rather than as an error.
type VerificationDTO struct {
	Valid      bool       `json:"valid"`
	Error      string     `json:"error,omitempty"`
	CardID     string     `json:"cardId,omitempty"`
	Data       *IDCardDTO `json:"data,omitempty"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty"`
	Expired    *bool      `json:"expired,omitempty"`
}

// MemberCountDTO counts cards by activity.
type MemberCountDTO struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
}

// IDNumberChange is one number replaced by a regeneration run.
type IDNumberChange struct {
	CardID    uint   `json:"card_id"`
	UserID    uint   `json:"user_id"`
	OldNumber string `json:"old_number"`
	NewNumber string `json:"new_number"`
	Error     string `json:"error,omitempty"`
}

// RegenerateSummary reports a regeneration run.
type RegenerateSummary struct {
	DryRun  bool             `json:"dry_run"`
	Scanned int              `json:"scanned"`
	Updated int              `json:"updated"`
	Skipped int              `json:"skipped"`
	Failed  int              `json:"failed"`
	Changes []IDNumberChange `json:"changes"`
}
