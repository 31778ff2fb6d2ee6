package http

import (
	"gorm.io/gorm"

	"github.com/memberhub/memberhub/internal/domain/credential"
	"github.com/memberhub/memberhub/internal/domain/member"
	"github.com/memberhub/memberhub/internal/domain/payment"
	"github.com/memberhub/memberhub/internal/domain/subscription"
	"github.com/memberhub/memberhub/internal/infrastructure/repository"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	transactionRepo  payment.TransactionRepository
	paymentRepo      subscription.PaymentRepository
	subscriptionRepo subscription.Repository
	planRepo         subscription.PlanRepository
	cardRepo         credential.Repository
	memberRepo       member.Repository
}

func newRepositories(db *gorm.DB, clock biztime.Clock, log logger.Interface) *repositories {
	return &repositories{
		transactionRepo:  repository.NewTransactionRepository(db, log),
		paymentRepo:      repository.NewSubscriptionPaymentRepository(db),
		subscriptionRepo: repository.NewSubscriptionRepository(db, clock, log),
		planRepo:         repository.NewPlanRepository(db),
		cardRepo:         repository.NewIDCardRepository(db, clock),
		memberRepo:       repository.NewMemberRepository(db),
	}
}
