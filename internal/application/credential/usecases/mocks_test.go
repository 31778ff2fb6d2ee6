package usecases

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/memberhub/memberhub/internal/domain/credential"
	"github.com/memberhub/memberhub/internal/domain/member"
)

type fakeCardRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*credential.IDCard
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{rows: make(map[uint]*credential.IDCard)}
}

func cloneCard(c *credential.IDCard) *credential.IDCard {
	out, err := credential.ReconstructIDCard(
		c.ID(), c.UserID(), c.IDNumber(), c.FirstTime(), c.IsActive(), c.Expired(),
		c.ExpiredAt(), c.Signature(), c.CreatedAt(), c.UpdatedAt(),
	)
	if err != nil {
		panic(err)
	}
	return out
}

// put stores a card as-is, assigning the next id.
func (r *fakeCardRepo) put(c *credential.IDCard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	_ = c.SetID(r.nextID)
	r.rows[c.ID()] = cloneCard(c)
}

func (r *fakeCardRepo) Create(_ context.Context, c *credential.IDCard) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.UserID() == c.UserID() {
			return fmt.Errorf("UNIQUE constraint failed: id_cards.user_id")
		}
	}
	r.nextID++
	if err := c.SetID(r.nextID); err != nil {
		return err
	}
	r.rows[c.ID()] = cloneCard(c)
	return nil
}

func (r *fakeCardRepo) Update(_ context.Context, c *credential.IDCard) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rows[c.ID()]
	if !ok {
		return credential.ErrCardNotFound
	}
	// Update never rewrites the number.
	updated, err := credential.ReconstructIDCard(
		c.ID(), c.UserID(), stored.IDNumber(), c.FirstTime(), c.IsActive(), c.Expired(),
		c.ExpiredAt(), c.Signature(), c.CreatedAt(), c.UpdatedAt(),
	)
	if err != nil {
		return err
	}
	r.rows[c.ID()] = updated
	return nil
}

func (r *fakeCardRepo) GetByUserID(_ context.Context, userID uint) (*credential.IDCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.UserID() == userID {
			return cloneCard(c), nil
		}
	}
	return nil, credential.ErrCardNotFound
}

func (r *fakeCardRepo) GetByIDNumber(_ context.Context, idNumber string) (*credential.IDCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.IDNumber() == idNumber {
			return cloneCard(c), nil
		}
	}
	return nil, credential.ErrCardNotFound
}

func (r *fakeCardRepo) ExistsByIDNumber(ctx context.Context, idNumber string) (bool, error) {
	_, err := r.GetByIDNumber(ctx, idNumber)
	return err == nil, nil
}

func (r *fakeCardRepo) ReplaceIDNumber(_ context.Context, c *credential.IDCard, oldNumber string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rows[c.ID()]
	if !ok || stored.IDNumber() != oldNumber {
		return credential.ErrCardNotFound
	}
	r.rows[c.ID()] = cloneCard(c)
	return nil
}

func (r *fakeCardRepo) ListAfterID(_ context.Context, afterID uint, limit int) ([]*credential.IDCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for id := range r.rows {
		if id > afterID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]*credential.IDCard, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneCard(r.rows[id]))
	}
	return out, nil
}

func (r *fakeCardRepo) CountByActive(context.Context) (int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active int64
	for _, c := range r.rows {
		if c.IsActive() {
			active++
		}
	}
	return int64(len(r.rows)), active, nil
}

func (r *fakeCardRepo) ExpireOverdue(_ context.Context, today time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, c := range r.rows {
		if !c.Expired() && c.RefreshExpiry(today, today) {
			r.rows[id] = c
			n++
		}
	}
	return n, nil
}

func (r *fakeCardRepo) byUser(userID uint) *credential.IDCard {
	c, err := r.GetByUserID(context.Background(), userID)
	if err != nil {
		return nil
	}
	return c
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

// sequenceGenerator hands out fixed suffixes in order, then repeats the last.
type sequenceGenerator struct {
	mu       sync.Mutex
	suffixes []string
	calls    int
}

func (g *sequenceGenerator) Generate(dob *time.Time, today time.Time) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := g.calls
	if i >= len(g.suffixes) {
		i = len(g.suffixes) - 1
	}
	g.calls++
	return credential.PrefixFor(dob, today) + g.suffixes[i], nil
}
