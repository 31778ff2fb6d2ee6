package usecases

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/memberhub/memberhub/internal/application/payment/paymentgateway"
	"github.com/memberhub/memberhub/internal/domain/payment"
	"github.com/memberhub/memberhub/internal/domain/subscription"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	"github.com/memberhub/memberhub/internal/shared/db"
	apperrors "github.com/memberhub/memberhub/internal/shared/errors"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// CheckoutResult is returned to the client after a charge is opened.
type CheckoutResult struct {
	Reference  string `json:"reference"`
	PaymentURL string `json:"payment_url"`
	Provider   string `json:"provider"`
	Purpose    string `json:"purpose"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
}

// checkout persists a pending charge and hands it to the gateway. The rows it
// creates are removed again when the gateway refuses the charge.
type checkout struct {
	txnRepo     payment.TransactionRepository
	paymentRepo subscription.PaymentRepository
	txMgr       db.Transactor
	clock       biztime.Clock
	logger      logger.Interface
}

func (c *checkout) open(
	ctx context.Context,
	gw paymentgateway.Gateway,
	txn *payment.Transaction,
	sp *subscription.Payment,
	redirectURL, description string,
) (*CheckoutResult, error) {
	err := c.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if sp != nil {
			if err := c.paymentRepo.Create(txCtx, sp); err != nil {
				return fmt.Errorf("failed to create subscription payment: %w", err)
			}
			if err := txn.LinkSubscriptionPayment(sp.ID()); err != nil {
				return err
			}
		}
		if err := c.txnRepo.Create(txCtx, txn); err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		c.logger.Errorw("failed to persist pending charge", "error", err, "reference", txn.Reference())
		return nil, err
	}

	metadata := map[string]string{
		"purpose":   txn.Purpose().String(),
		"reference": txn.Reference(),
	}
	if txn.UserID() != nil {
		metadata["user_id"] = strconv.FormatUint(uint64(*txn.UserID()), 10)
	}

	resp, err := gw.Initiate(ctx, paymentgateway.InitiateRequest{
		Reference:   txn.Reference(),
		Amount:      txn.Money(),
		PayerEmail:  txn.PayerEmail(),
		RedirectURL: redirectURL,
		Description: description,
		Metadata:    metadata,
	})
	if err != nil {
		c.logger.Errorw("failed to initiate payment with gateway", "error", err, "reference", txn.Reference(), "provider", txn.Provider())
		c.discard(ctx, txn, sp)
		return nil, apperrors.NewGatewayError("Unable to initiate payment at the moment").WithCause(err)
	}

	if resp.GatewayReference != "" {
		txn.SetGatewayReference(resp.GatewayReference, c.clock.Now())
		if err := c.txnRepo.UpdateGatewayReference(ctx, txn); err != nil {
			c.logger.Errorw("failed to store gateway reference", "error", err, "reference", txn.Reference())
			// The payer never receives a payment URL, so the row is dropped
			// instead of lingering until the stale sweep.
			c.discard(ctx, txn, sp)
			return nil, fmt.Errorf("failed to store gateway reference: %w", err)
		}
	}

	c.logger.Infow("payment initiated",
		"reference", txn.Reference(),
		"provider", txn.Provider(),
		"purpose", txn.Purpose(),
		"amount", txn.Money().String(),
	)

	return &CheckoutResult{
		Reference:  txn.Reference(),
		PaymentURL: resp.PaymentURL,
		Provider:   txn.Provider().String(),
		Purpose:    txn.Purpose().String(),
		Amount:     txn.Money().Amount().StringFixed(2),
		Currency:   txn.Money().Currency(),
	}, nil
}

func (c *checkout) discard(ctx context.Context, txn *payment.Transaction, sp *subscription.Payment) {
	err := c.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := c.txnRepo.Delete(txCtx, txn.ID()); err != nil {
			return err
		}
		if sp != nil {
			return c.paymentRepo.Delete(txCtx, sp.ID())
		}
		return nil
	})
	if err != nil {
		c.logger.Errorw("failed to discard pending charge", "error", err, "reference", txn.Reference())
	}
}

func validateRedirectURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return apperrors.NewValidationError("redirect_url must be an absolute http(s) URL")
	}
	return nil
}

func resolveGateway(gateways *paymentgateway.Registry, provider string) (paymentgateway.Gateway, error) {
	gw, err := gateways.Resolve(provider)
	if err != nil {
		return nil, apperrors.NewValidationError("unsupported payment provider", provider)
	}
	return gw, nil
}
