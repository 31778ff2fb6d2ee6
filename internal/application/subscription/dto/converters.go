package dto

import (
	"time"

	"github.com/memberhub/memberhub/internal/domain/subscription"
	"github.com/memberhub/memberhub/internal/shared/biztime"
)

// ToSubscriptionDTO converts a subscription, computing the derived fields as
// of today.
func ToSubscriptionDTO(sub *subscription.Subscription, today time.Time) *SubscriptionDTO {
	if sub == nil {
		return nil
	}

	return &SubscriptionDTO{
		ID:               sub.ID(),
		UserID:           sub.UserID(),
		PlanID:           sub.PlanID(),
		Status:           sub.Status().String(),
		StartDate:        biztime.FormatDate(sub.StartDate()),
		EndDate:          biztime.FormatDate(sub.EndDate()),
		AmountPaid:       sub.AmountPaid().StringFixed(2),
		PaymentMethod:    sub.PaymentMethod().String(),
		PaymentReference: sub.PaymentReference(),
		AutoRenew:        sub.AutoRenew(),
		IsActive:         sub.IsActive(today),
		DaysUntilExpiry:  sub.DaysUntilExpiry(today),
		ActivatedAt:      sub.ActivatedAt(),
		CancelledAt:      sub.CancelledAt(),
		CreatedAt:        sub.CreatedAt(),
		UpdatedAt:        sub.UpdatedAt(),
	}
}

// ToSubscriptionDTOList returns an empty slice for no input.
func ToSubscriptionDTOList(subs []*subscription.Subscription, today time.Time) []*SubscriptionDTO {
	out := make([]*SubscriptionDTO, 0, len(subs))
	for _, sub := range subs {
		if sub != nil {
			out = append(out, ToSubscriptionDTO(sub, today))
		}
	}
	return out
}

func ToPlanDTO(plan *subscription.Plan) *PlanDTO {
	if plan == nil {
		return nil
	}

	return &PlanDTO{
		ID:             plan.ID(),
		Name:           plan.Name(),
		Description:    plan.Description(),
		Price:          plan.Price().StringFixed(2),
		DurationMonths: plan.DurationMonths(),
		IsActive:       plan.IsActive(),
		CreatedAt:      plan.CreatedAt(),
		UpdatedAt:      plan.UpdatedAt(),
	}
}

func ToPlanDTOList(plans []*subscription.Plan) []*PlanDTO {
	out := make([]*PlanDTO, 0, len(plans))
	for _, plan := range plans {
		if plan != nil {
			out = append(out, ToPlanDTO(plan))
		}
	}
	return out
}

func ToPaymentDTO(p *subscription.Payment) *PaymentDTO {
	if p == nil {
		return nil
	}

	return &PaymentDTO{
		ID:             p.ID(),
		SubscriptionID: p.SubscriptionID(),
		Amount:         p.Amount().StringFixed(2),
		Method:         p.Method().String(),
		Reference:      p.Reference(),
		Status:         p.Status().String(),
		Notes:          p.Notes(),
		PaidAt:         p.PaidAt(),
		CreatedAt:      p.CreatedAt(),
	}
}
