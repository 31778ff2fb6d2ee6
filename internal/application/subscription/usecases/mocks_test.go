package usecases

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/memberhub/memberhub/internal/domain/member"
	"github.com/memberhub/memberhub/internal/domain/subscription"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSubRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*subscription.Subscription
	clock  interface{ Today() time.Time }
	writes int
}

func newFakeSubRepo(clock interface{ Today() time.Time }) *fakeSubRepo {
	return &fakeSubRepo{rows: make(map[uint]*subscription.Subscription), clock: clock}
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
	s.ApplyPassiveExpiry(r.clock.Today())
	r.nextID++
	if err := s.SetID(r.nextID); err != nil {
		return err
	}
	r.rows[s.ID()] = cloneSub(s)
	r.writes++
	return nil
}

func (r *fakeSubRepo) Update(_ context.Context, s *subscription.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ApplyPassiveExpiry(r.clock.Today())
	r.rows[s.ID()] = cloneSub(s)
	r.writes++
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
	sort.Slice(out, func(i, j int) bool { return out[i].ID() > out[j].ID() })
	return out, int64(len(out)), nil
}

func (r *fakeSubRepo) ExpireOverdue(_ context.Context, today time.Time, limit int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.rows {
		if int(n) >= limit {
			break
		}
		if s.ApplyPassiveExpiry(today) {
			n++
		}
	}
	return n, nil
}

type fakePlanRepo struct {
	mu     sync.Mutex
	nextID uint
	plans  map[uint]*subscription.Plan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: make(map[uint]*subscription.Plan)}
}

func (r *fakePlanRepo) Create(_ context.Context, p *subscription.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	if err := p.SetID(r.nextID); err != nil {
		return err
	}
	r.plans[p.ID()] = p
	return nil
}

func (r *fakePlanRepo) Update(_ context.Context, p *subscription.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans[p.ID()] = p
	return nil
}

func (r *fakePlanRepo) GetByID(_ context.Context, id uint) (*subscription.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, subscription.ErrPlanNotFound
	}
	return p, nil
}

func (r *fakePlanRepo) GetByName(_ context.Context, name string) (*subscription.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.plans {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, subscription.ErrPlanNotFound
}

func (r *fakePlanRepo) ListActive(context.Context) ([]*subscription.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*subscription.Plan
	for _, p := range r.plans {
		if p.IsActive() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

type fakePaymentRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*subscription.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{rows: make(map[uint]*subscription.Payment)}
}

func (r *fakePaymentRepo) Create(_ context.Context, p *subscription.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	if err := p.SetID(r.nextID); err != nil {
		return err
	}
	r.rows[p.ID()] = p
	return nil
}

func (r *fakePaymentRepo) Update(_ context.Context, p *subscription.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[p.ID()] = p
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
	return p, nil
}

func (r *fakePaymentRepo) GetByReference(_ context.Context, reference string) (*subscription.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.Reference() == reference {
			return p, nil
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
			out = append(out, p)
		}
	}
	return out, nil
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
