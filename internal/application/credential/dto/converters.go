package dto

import (
	"time"

	"github.com/memberhub/memberhub/internal/domain/credential"
	"github.com/memberhub/memberhub/internal/domain/member"
	"github.com/memberhub/memberhub/internal/shared/biztime"
)

// ToIDCardDTO converts a card and its holder. holder may be nil.
func ToIDCardDTO(card *credential.IDCard, holder *member.Member, today time.Time) *IDCardDTO {
	if card == nil {
		return nil
	}

	out := &IDCardDTO{
		ID:            card.ID(),
		UserID:        card.UserID(),
		IDNumber:      card.IDNumber(),
		FirstTime:     card.FirstTime(),
		IsActive:      card.IsActive(),
		Expired:       card.Expired(),
		DaysRemaining: card.DaysRemaining(today),
		CreatedAt:     card.CreatedAt(),
		UpdatedAt:     card.UpdatedAt(),
	}
	if card.ExpiredAt() != nil {
		s := biztime.FormatDate(*card.ExpiredAt())
		out.ExpiredAt = &s
	}
	if holder != nil {
		out.FirstName = holder.FirstName
		out.LastName = holder.LastName
	}
	return out
}
