package subscription

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const DefaultPlanDurationMonths = 12

// Plan is a priced membership offering. DurationMonths is informational;
// the period itself always ends on the cutoff date.
type Plan struct {
	id             uint
	name           string
	description    string
	price          decimal.Decimal
	durationMonths int
	isActive       bool
	createdAt      time.Time
	updatedAt      time.Time
}

// NewPlan creates a new active Plan. A non-positive duration falls back to
// DefaultPlanDurationMonths.
func NewPlan(name, description string, price decimal.Decimal, durationMonths int, now time.Time) (*Plan, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("plan name is required")
	}
	if len(name) > 100 {
		return nil, fmt.Errorf("plan name too long")
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("plan price cannot be negative")
	}
	if durationMonths == 0 {
		durationMonths = DefaultPlanDurationMonths
	}
	if durationMonths < 0 {
		return nil, fmt.Errorf("plan duration must be positive")
	}

	return &Plan{
		name:           name,
		description:    description,
		price:          price,
		durationMonths: durationMonths,
		isActive:       true,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ReconstructPlan rebuilds a Plan from persisted state.
func ReconstructPlan(id uint, name, description string, price decimal.Decimal, durationMonths int, isActive bool, createdAt, updatedAt time.Time) *Plan {
	return &Plan{
		id:             id,
		name:           name,
		description:    description,
		price:          price,
		durationMonths: durationMonths,
		isActive:       isActive,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (p *Plan) ID() uint               { return p.id }
func (p *Plan) Name() string           { return p.name }
func (p *Plan) Description() string    { return p.description }
func (p *Plan) Price() decimal.Decimal { return p.price }
func (p *Plan) DurationMonths() int    { return p.durationMonths }
func (p *Plan) IsActive() bool         { return p.isActive }
func (p *Plan) CreatedAt() time.Time   { return p.createdAt }
func (p *Plan) UpdatedAt() time.Time   { return p.updatedAt }

func (p *Plan) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("plan ID already set")
	}
	p.id = id
	return nil
}

// DurationDays approximates the plan duration for credential validity.
func (p *Plan) DurationDays() int {
	return p.durationMonths * 30
}

// Update replaces the mutable plan fields.
func (p *Plan) Update(description string, price decimal.Decimal, durationMonths int, isActive bool, now time.Time) error {
	if price.IsNegative() {
		return fmt.Errorf("plan price cannot be negative")
	}
	if durationMonths <= 0 {
		return fmt.Errorf("plan duration must be positive")
	}
	p.description = description
	p.price = price
	p.durationMonths = durationMonths
	p.isActive = isActive
	p.updatedAt = now
	return nil
}
