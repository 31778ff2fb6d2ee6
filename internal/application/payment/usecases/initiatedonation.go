package usecases

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/memberhub/memberhub/internal/application/payment/paymentgateway"
	"github.com/memberhub/memberhub/internal/domain/payment"
	vo "github.com/memberhub/memberhub/internal/domain/payment/valueobjects"
	"github.com/memberhub/memberhub/internal/domain/subscription"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	"github.com/memberhub/memberhub/internal/shared/db"
	apperrors "github.com/memberhub/memberhub/internal/shared/errors"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// InitiateDonationCommand starts a donation checkout. The donor may be
// anonymous.
type InitiateDonationCommand struct {
	Amount      string
	Currency    string
	Email       string
	Provider    string
	RedirectURL string
	// UserID is set when a signed-in member donates.
	UserID *uint
}

// InitiateDonationUseCase opens a checkout for a donation. Donations unlock
// nothing when paid.
type InitiateDonationUseCase struct {
	checkout
	gateways *paymentgateway.Registry
}

// NewInitiateDonationUseCase creates a new use case.
func NewInitiateDonationUseCase(
	txnRepo payment.TransactionRepository,
	paymentRepo subscription.PaymentRepository,
	gateways *paymentgateway.Registry,
	txMgr db.Transactor,
	clock biztime.Clock,
	logger logger.Interface,
) *InitiateDonationUseCase {
	return &InitiateDonationUseCase{
		checkout: checkout{
			txnRepo:     txnRepo,
			paymentRepo: paymentRepo,
			txMgr:       txMgr,
			clock:       clock,
			logger:      logger,
		},
		gateways: gateways,
	}
}

func (uc *InitiateDonationUseCase) Execute(ctx context.Context, cmd InitiateDonationCommand) (*CheckoutResult, error) {
	if err := validateRedirectURL(cmd.RedirectURL); err != nil {
		return nil, err
	}
	gw, err := resolveGateway(uc.gateways, cmd.Provider)
	if err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(cmd.Amount)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid donation amount", cmd.Amount)
	}
	money, err := vo.NewMoney(amount, cmd.Currency)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	txn, err := payment.NewTransaction(gw.Provider(), vo.PurposeDonation, cmd.UserID, cmd.Email, money, uc.clock.Now())
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	return uc.open(ctx, gw, txn, nil, cmd.RedirectURL, "Donation")
}
