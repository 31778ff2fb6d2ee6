package http

import (
	"fmt"

	"github.com/shopspring/decimal"

	credentialUsecases "github.com/memberhub/memberhub/internal/application/credential/usecases"
	"github.com/memberhub/memberhub/internal/application/notification"
	"github.com/memberhub/memberhub/internal/application/payment/paymentgateway"
	paymentUsecases "github.com/memberhub/memberhub/internal/application/payment/usecases"
	subscriptionUsecases "github.com/memberhub/memberhub/internal/application/subscription/usecases"
	"github.com/memberhub/memberhub/internal/domain/credential"
	vo "github.com/memberhub/memberhub/internal/domain/payment/valueobjects"
	"github.com/memberhub/memberhub/internal/infrastructure/config"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	"github.com/memberhub/memberhub/internal/shared/db"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// Credential
	cardService       *credentialUsecases.CardService
	grantDemoUC       *credentialUsecases.GrantDemoMembershipUseCase
	getMyCardUC       *credentialUsecases.GetMyCardUseCase
	verifyIDNumberUC  *credentialUsecases.VerifyIDNumberUseCase
	countMembersUC    *credentialUsecases.CountMembersUseCase
	expireCardsUC     *credentialUsecases.ExpireCredentialsUseCase
	regenerateNumbers *credentialUsecases.RegenerateIDNumbersUseCase

	// Subscription
	createSubscriptionUC   *subscriptionUsecases.CreateSubscriptionUseCase
	getSubscriptionUC      *subscriptionUsecases.GetSubscriptionUseCase
	activateSubscriptionUC *subscriptionUsecases.ActivateSubscriptionUseCase
	cancelSubscriptionUC   *subscriptionUsecases.CancelSubscriptionUseCase
	getActiveUC            *subscriptionUsecases.GetActiveSubscriptionUseCase
	historyUC              *subscriptionUsecases.ListSubscriptionHistoryUseCase
	recordPaymentUC        *subscriptionUsecases.RecordSubscriptionPaymentUseCase
	listPlansUC            *subscriptionUsecases.ListPlansUseCase
	seedPlansUC            *subscriptionUsecases.SeedPlansUseCase
	expireSubscriptionsUC  *subscriptionUsecases.ExpireSubscriptionsUseCase

	// Payment
	reconcileUC       *paymentUsecases.ReconcileUseCase
	initiatePaymentUC *paymentUsecases.InitiatePaymentUseCase
	initiateDonateUC  *paymentUsecases.InitiateDonationUseCase
	verifyPaymentUC   *paymentUsecases.VerifyPaymentUseCase
	handleWebhookUC   *paymentUsecases.HandleWebhookUseCase
	reconcileStaleUC  *paymentUsecases.ReconcileStaleTransactionsUseCase
}

// useCaseDeps groups the collaborators shared by every use case.
type useCaseDeps struct {
	repos    *repositories
	gateways *paymentgateway.Registry
	notifier notification.Notifier
	dedup    paymentUsecases.WebhookDeduplicator
	txMgr    db.Transactor
	clock    biztime.Clock
	cfg      *config.Config
	log      logger.Interface
}

func newUseCases(d useCaseDeps) (*allUseCases, error) {
	cfg := d.cfg
	repos := d.repos
	clock := d.clock
	log := d.log

	policy, err := cfg.CutoffPolicy()
	if err != nil {
		return nil, err
	}
	fee, err := membershipFee(cfg)
	if err != nil {
		return nil, err
	}

	generator := credential.NewIDNumberGenerator()
	ucs := &allUseCases{}

	ucs.cardService = credentialUsecases.NewCardService(repos.cardRepo, repos.memberRepo, generator, clock, log)
	ucs.grantDemoUC = credentialUsecases.NewGrantDemoMembershipUseCase(ucs.cardService, cfg.Membership.ValidityDays, clock, log)
	ucs.grantDemoUC.SetNotifier(d.notifier)
	ucs.getMyCardUC = credentialUsecases.NewGetMyCardUseCase(ucs.cardService, clock, log)
	ucs.verifyIDNumberUC = credentialUsecases.NewVerifyIDNumberUseCase(repos.cardRepo, repos.memberRepo, clock, log)
	ucs.countMembersUC = credentialUsecases.NewCountMembersUseCase(repos.cardRepo, log)
	ucs.expireCardsUC = credentialUsecases.NewExpireCredentialsUseCase(repos.cardRepo, clock, log)
	ucs.regenerateNumbers = credentialUsecases.NewRegenerateIDNumbersUseCase(repos.cardRepo, repos.memberRepo, generator, clock, log)

	ucs.createSubscriptionUC = subscriptionUsecases.NewCreateSubscriptionUseCase(
		repos.subscriptionRepo, repos.planRepo, repos.memberRepo, policy, clock, log,
	)
	ucs.getSubscriptionUC = subscriptionUsecases.NewGetSubscriptionUseCase(repos.subscriptionRepo, clock, log)
	ucs.activateSubscriptionUC = subscriptionUsecases.NewActivateSubscriptionUseCase(repos.subscriptionRepo, repos.memberRepo, clock, log)
	ucs.activateSubscriptionUC.SetNotifier(d.notifier)
	ucs.cancelSubscriptionUC = subscriptionUsecases.NewCancelSubscriptionUseCase(repos.subscriptionRepo, repos.memberRepo, clock, log)
	ucs.cancelSubscriptionUC.SetNotifier(d.notifier)
	ucs.getActiveUC = subscriptionUsecases.NewGetActiveSubscriptionUseCase(repos.subscriptionRepo, clock, log)
	ucs.historyUC = subscriptionUsecases.NewListSubscriptionHistoryUseCase(repos.subscriptionRepo, clock, log)
	ucs.recordPaymentUC = subscriptionUsecases.NewRecordSubscriptionPaymentUseCase(
		repos.subscriptionRepo, repos.paymentRepo, d.txMgr, clock, log,
	)
	ucs.listPlansUC = subscriptionUsecases.NewListPlansUseCase(repos.planRepo, log)
	ucs.seedPlansUC = subscriptionUsecases.NewSeedPlansUseCase(repos.planRepo, clock, log)
	ucs.expireSubscriptionsUC = subscriptionUsecases.NewExpireSubscriptionsUseCase(repos.subscriptionRepo, clock, cfg.Worker.BatchSize, log)

	ucs.reconcileUC = paymentUsecases.NewReconcileUseCase(
		repos.transactionRepo, repos.paymentRepo, repos.subscriptionRepo, repos.planRepo,
		d.gateways, ucs.cardService, d.txMgr, clock,
		paymentUsecases.ReconcileOptions{
			ValidityDays:    cfg.Membership.ValidityDays,
			UsePlanDuration: cfg.Membership.UsePlanDuration,
		},
		log,
	)
	ucs.reconcileUC.SetNotifier(d.notifier)
	ucs.initiatePaymentUC = paymentUsecases.NewInitiatePaymentUseCase(
		repos.transactionRepo, repos.paymentRepo, repos.subscriptionRepo, repos.planRepo, repos.memberRepo,
		d.gateways, d.txMgr, clock, fee, log,
	)
	ucs.initiateDonateUC = paymentUsecases.NewInitiateDonationUseCase(
		repos.transactionRepo, repos.paymentRepo, d.gateways, d.txMgr, clock, log,
	)
	ucs.verifyPaymentUC = paymentUsecases.NewVerifyPaymentUseCase(repos.transactionRepo, ucs.reconcileUC, log)
	ucs.handleWebhookUC = paymentUsecases.NewHandleWebhookUseCase(repos.transactionRepo, d.gateways, ucs.reconcileUC, log)
	if d.dedup != nil {
		ucs.handleWebhookUC.SetDeduplicator(d.dedup)
	}
	ucs.reconcileStaleUC = paymentUsecases.NewReconcileStaleTransactionsUseCase(
		repos.transactionRepo, ucs.reconcileUC, clock, cfg.Worker.StaleAfter, cfg.Worker.BatchSize, log,
	)

	return ucs, nil
}

func membershipFee(cfg *config.Config) (vo.Money, error) {
	amount, err := decimal.NewFromString(cfg.Membership.Fee)
	if err != nil {
		return vo.Money{}, fmt.Errorf("invalid membership fee %q: %w", cfg.Membership.Fee, err)
	}
	return vo.NewMoney(amount, cfg.Membership.Currency)
}
