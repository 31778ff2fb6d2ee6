package usecases

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/memberhub/memberhub/internal/application/payment/paymentgateway"
	"github.com/memberhub/memberhub/internal/domain/member"
	"github.com/memberhub/memberhub/internal/domain/payment"
	vo "github.com/memberhub/memberhub/internal/domain/payment/valueobjects"
	"github.com/memberhub/memberhub/internal/domain/subscription"
)

type mockGateway struct {
	mock.Mock
	provider vo.Provider
}

func newMockGateway(provider vo.Provider) *mockGateway {
	return &mockGateway{provider: provider}
}

func (m *mockGateway) Provider() vo.Provider { return m.provider }

func (m *mockGateway) Initiate(ctx context.Context, req paymentgateway.InitiateRequest) (*paymentgateway.InitiateResponse, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*paymentgateway.InitiateResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) Verify(ctx context.Context, req paymentgateway.VerifyRequest) (*paymentgateway.VerifyResult, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*paymentgateway.VerifyResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) ParseWebhook(payload []byte, header http.Header) (*paymentgateway.WebhookEvent, error) {
	args := m.Called(payload, header)
	if r := args.Get(0); r != nil {
		return r.(*paymentgateway.WebhookEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockReconciler struct {
	mock.Mock
}

func (m *mockReconciler) Execute(ctx context.Context, reference string) (*ReconcileResult, error) {
	args := m.Called(ctx, reference)
	if r := args.Get(0); r != nil {
		return r.(*ReconcileResult), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockDeduplicator struct {
	mock.Mock
}

func (m *mockDeduplicator) TryClaim(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockDeduplicator) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// passthroughTx runs the unit of work without a real database.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeTxnRepo stores copies so callers never share state with the store,
// mirroring a real database round trip.
type fakeTxnRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[string]*payment.Transaction

	updateRefErr error
}

func newFakeTxnRepo() *fakeTxnRepo {
	return &fakeTxnRepo{rows: make(map[string]*payment.Transaction)}
}

func cloneTxn(t *payment.Transaction) *payment.Transaction {
	c, err := payment.ReconstructTransaction(
		t.ID(), t.Reference(), t.Provider(), t.Purpose(), t.Status(), t.UserID(), t.PayerEmail(),
		t.SubscriptionPaymentID(), t.Money(), t.GatewayReference(), t.Response(), t.VerifiedAt(),
		t.CreatedAt(), t.UpdatedAt(),
	)
	if err != nil {
		panic(err)
	}
	return c
}

func (r *fakeTxnRepo) Create(_ context.Context, txn *payment.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	if err := txn.SetID(r.nextID); err != nil {
		return err
	}
	r.rows[txn.Reference()] = cloneTxn(txn)
	return nil
}

func (r *fakeTxnRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for ref, t := range r.rows {
		if t.ID() == id {
			delete(r.rows, ref)
		}
	}
	return nil
}

func (r *fakeTxnRepo) GetByReference(_ context.Context, reference string) (*payment.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.rows[reference]
	if !ok {
		return nil, payment.ErrTransactionNotFound
	}
	return cloneTxn(t), nil
}

func (r *fakeTxnRepo) GetByGatewayReference(_ context.Context, provider vo.Provider, gatewayReference string) (*payment.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.rows {
		if t.Provider() == provider && t.GatewayReference() != nil && *t.GatewayReference() == gatewayReference {
			return cloneTxn(t), nil
		}
	}
	return nil, payment.ErrTransactionNotFound
}

func (r *fakeTxnRepo) UpdateGatewayReference(_ context.Context, txn *payment.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateRefErr != nil {
		return r.updateRefErr
	}
	r.rows[txn.Reference()] = cloneTxn(txn)
	return nil
}

func (r *fakeTxnRepo) Finalize(_ context.Context, txn *payment.Transaction) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rows[txn.Reference()]
	if !ok || !txn.Status().CanFollow(stored.Status()) {
		return false, nil
	}
	r.rows[txn.Reference()] = cloneTxn(txn)
	return true, nil
}

func (r *fakeTxnRepo) ListPendingCreatedBefore(_ context.Context, before time.Time, afterID uint, limit int) ([]*payment.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*payment.Transaction
	for _, t := range r.rows {
		if t.Status().IsPending() && t.CreatedAt().Before(before) && t.ID() > afterID {
			out = append(out, cloneTxn(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeTxnRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type fakePaymentRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*subscription.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{rows: make(map[uint]*subscription.Payment)}
}

func clonePayment(p *subscription.Payment) *subscription.Payment {
	c, err := subscription.ReconstructPayment(
		p.ID(), p.SubscriptionID(), p.Amount(), p.Method(), p.Reference(), p.Status(),
		p.GatewayResponse(), p.Notes(), p.PaidAt(), p.CreatedAt(), p.UpdatedAt(),
	)
	if err != nil {
		panic(err)
	}
	return c
}

func (r *fakePaymentRepo) Create(_ context.Context, p *subscription.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	if err := p.SetID(r.nextID); err != nil {
		return err
	}
	r.rows[p.ID()] = clonePayment(p)
	return nil
}

func (r *fakePaymentRepo) Update(_ context.Context, p *subscription.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[p.ID()] = clonePayment(p)
	return nil
}

func (r *fakePaymentRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id uint) (*subscription.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, subscription.ErrPaymentNotFound
	}
	return clonePayment(p), nil
}

func (r *fakePaymentRepo) GetByReference(_ context.Context, reference string) (*subscription.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.Reference() == reference {
			return clonePayment(p), nil
		}
	}
	return nil, subscription.ErrPaymentNotFound
}

func (r *fakePaymentRepo) ListBySubscriptionID(_ context.Context, subscriptionID uint) ([]*subscription.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*subscription.Payment
	for _, p := range r.rows {
		if p.SubscriptionID() == subscriptionID {
			out = append(out, clonePayment(p))
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type fakeSubRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*subscription.Subscription
}

func newFakeSubRepo() *fakeSubRepo {
	return &fakeSubRepo{rows: make(map[uint]*subscription.Subscription)}
}

func cloneSub(s *subscription.Subscription) *subscription.Subscription {
	c, err := subscription.ReconstructSubscription(
		s.ID(), s.UserID(), s.PlanID(), s.Status(), s.StartDate(), s.EndDate(), s.AmountPaid(),
		s.PaymentMethod(), s.PaymentReference(), s.AutoRenew(), s.ActivatedAt(), s.CancelledAt(),
		s.CreatedAt(), s.UpdatedAt(),
	)
	if err != nil {
		panic(err)
	}
	return c
}

func (r *fakeSubRepo) Create(_ context.Context, s *subscription.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	if err := s.SetID(r.nextID); err != nil {
		return err
	}
	r.rows[s.ID()] = cloneSub(s)
	return nil
}

func (r *fakeSubRepo) Update(_ context.Context, s *subscription.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[s.ID()] = cloneSub(s)
	return nil
}

func (r *fakeSubRepo) GetByID(_ context.Context, id uint) (*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok {
		return nil, subscription.ErrSubscriptionNotFound
	}
	return cloneSub(s), nil
}

func (r *fakeSubRepo) GetActiveByUserID(_ context.Context, userID uint, today time.Time) (*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.rows {
		if s.UserID() == userID && s.IsActive(today) {
			return cloneSub(s), nil
		}
	}
	return nil, subscription.ErrSubscriptionNotFound
}

func (r *fakeSubRepo) ListByUserID(_ context.Context, userID uint, _, _ int) ([]*subscription.Subscription, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*subscription.Subscription
	for _, s := range r.rows {
		if s.UserID() == userID {
			out = append(out, cloneSub(s))
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeSubRepo) ExpireOverdue(context.Context, time.Time, int) (int64, error) {
	return 0, nil
}

type fakePlanRepo struct {
	plans map[uint]*subscription.Plan
}

func (r *fakePlanRepo) Create(context.Context, *subscription.Plan) error { return nil }
func (r *fakePlanRepo) Update(context.Context, *subscription.Plan) error { return nil }

func (r *fakePlanRepo) GetByID(_ context.Context, id uint) (*subscription.Plan, error) {
	p, ok := r.plans[id]
	if !ok {
		return nil, subscription.ErrPlanNotFound
	}
	return p, nil
}

func (r *fakePlanRepo) GetByName(context.Context, string) (*subscription.Plan, error) {
	return nil, subscription.ErrPlanNotFound
}

func (r *fakePlanRepo) ListActive(context.Context) ([]*subscription.Plan, error) {
	return nil, nil
}

type fakeMemberRepo struct {
	members map[uint]*member.Member
}

func (r *fakeMemberRepo) GetByID(_ context.Context, id uint) (*member.Member, error) {
	m, ok := r.members[id]
	if !ok {
		return nil, member.ErrMemberNotFound
	}
	return m, nil
}

type activation struct {
	UserID uint
	Days   int
}

type recordingActivator struct {
	mu    sync.Mutex
	calls []activation
}

func (a *recordingActivator) ActivateForDays(_ context.Context, userID uint, days int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, activation{UserID: userID, Days: days})
	return nil
}

func (a *recordingActivator) Calls() []activation {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]activation(nil), a.calls...)
}
