// Package ledger is the fund-custody core of the crowdfunding platform.
//
// The Engine owns every mutation of campaign and donation state and
// enforces the money invariants: amountRaised always equals the sum of
// unrefunded donations, funds release is exactly-once, refunds are
// gated on deadline/goal/withdrawal, deleted campaigns become
// tombstones that keep their donation history. Transports call the
// engine with an already-authenticated caller address; role checks go
// through the Gate.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	models "github.com/phillip/charity-ledger-go/models"
	store "github.com/phillip/charity-ledger-go/store"
)

type Engine struct {
	store store.CampaignStore
	gate  *Gate
	now   func() time.Time

	// Writes are serialized per campaign id. Two operations on the
	// same campaign never interleave; operations on different
	// campaigns run in parallel.
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's time source. Used by tests to move
// campaigns past their deadlines.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(s store.CampaignStore, gate *Gate, opts ...Option) *Engine {
	e := &Engine{
		store: s,
		gate:  gate,
		now:   time.Now,
		locks: make(map[int64]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// lockCampaign acquires the mutex for one campaign id, creating it on
// first use. Lock entries are never removed: ids are never reused, and
// a mutex per campaign ever touched is cheap.
func (e *Engine) lockCampaign(id int64) func() {
	e.mu.Lock()
	l, ok := e.locks[id]
	if !ok {
		l = &sync.Mutex{}
		e.locks[id] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// loadLive fetches a campaign and rejects tombstones.
func (e *Engine) loadLive(ctx context.Context, id int64) (models.Campaign, error) {
	c, err := e.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Campaign{}, ErrCampaignNotFound
	}
	if err != nil {
		return models.Campaign{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if !c.Exists {
		return models.Campaign{}, ErrCampaignNotFound
	}
	return c, nil
}

func (e *Engine) commit(ctx context.Context, c models.Campaign) error {
	c.UpdatedAt = e.now()
	if err := e.store.Replace(ctx, c); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// CreateCampaignInput carries the caller-supplied campaign fields.
type CreateCampaignInput struct {
	Title       string
	Description string
	DocumentRef string
	Category    string
	GoalAmount  int64
	Deadline    time.Time
}

// CreateCampaign validates the input, allocates the next sequential id
// and stores the new campaign. Ids are strictly increasing and never
// reused, even after deletion.
func (e *Engine) CreateCampaign(ctx context.Context, owner string, in CreateCampaignInput) (int64, error) {
	switch {
	case owner == "":
		return 0, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	case strings.TrimSpace(in.Title) == "":
		return 0, fmt.Errorf("%w: title is required", ErrInvalidInput)
	case strings.TrimSpace(in.Description) == "":
		return 0, fmt.Errorf("%w: description is required", ErrInvalidInput)
	case !models.ValidCategory(in.Category):
		return 0, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, in.Category)
	case in.GoalAmount <= 0:
		return 0, fmt.Errorf("%w: goal amount must be greater than 0", ErrInvalidInput)
	case !in.Deadline.After(e.now()):
		return 0, fmt.Errorf("%w: deadline must be in the future", ErrInvalidInput)
	}

	id, err := e.store.NextID(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	now := e.now()
	c := models.Campaign{
		ID:          id,
		Owner:       owner,
		Title:       in.Title,
		Description: in.Description,
		DocumentRef: in.DocumentRef,
		Category:    in.Category,
		GoalAmount:  in.GoalAmount,
		Deadline:    in.Deadline,
		Exists:      true,
		Donors:      []string{},
		Donations:   []models.Donation{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.store.Insert(ctx, c); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return id, nil
}

// Donate appends a donation and raises the campaign total. Donations
// are accepted after the deadline and past the goal; the contract
// places no gate on the donate path.
func (e *Engine) Donate(ctx context.Context, campaignID int64, donor string, amount int64, message string) (models.Donation, error) {
	if donor == "" {
		return models.Donation{}, fmt.Errorf("%w: donor is required", ErrInvalidInput)
	}
	if amount <= 0 {
		return models.Donation{}, fmt.Errorf("%w: amount must be greater than 0", ErrInvalidInput)
	}

	unlock := e.lockCampaign(campaignID)
	defer unlock()

	c, err := e.loadLive(ctx, campaignID)
	if err != nil {
		return models.Donation{}, err
	}

	d := models.Donation{
		CampaignID: campaignID,
		Donor:      donor,
		Amount:     amount,
		Message:    message,
		Sequence:   len(c.Donations),
		CreatedAt:  e.now(),
	}
	c.Donations = append(c.Donations, d)
	c.AmountRaised += amount
	if !c.HasDonor(donor) {
		c.Donors = append(c.Donors, donor)
	}

	if err := e.commit(ctx, c); err != nil {
		return models.Donation{}, err
	}
	return d, nil
}

// ReleaseFunds moves the raised amount out of custody to the owner and
// marks the campaign withdrawn. Exactly-once: a second call fails with
// ErrAlreadyWithdrawn. Owner or admin only. Returns the released
// amount.
func (e *Engine) ReleaseFunds(ctx context.Context, campaignID int64, caller string) (int64, error) {
	unlock := e.lockCampaign(campaignID)
	defer unlock()

	c, err := e.loadLive(ctx, campaignID)
	if err != nil {
		return 0, err
	}

	roles := e.gate.Resolve(caller, &c)
	if !roles.Has(RoleOwner) && !roles.Has(RoleAdmin) {
		return 0, ErrUnauthorized
	}
	if c.IsWithdrawn {
		return 0, ErrAlreadyWithdrawn
	}

	released := c.AmountRaised
	c.IsWithdrawn = true
	if err := e.commit(ctx, c); err != nil {
		return 0, err
	}
	return released, nil
}

// VerifyCampaign marks a campaign verified. Admin only. Verification
// is monotonic and idempotent: verifying an already-verified campaign
// succeeds without change.
func (e *Engine) VerifyCampaign(ctx context.Context, campaignID int64, caller string) error {
	// Role check first: non-admins are rejected regardless of campaign
	// state, without leaking whether the id exists.
	if !e.gate.IsAdmin(caller) {
		return ErrUnauthorized
	}

	unlock := e.lockCampaign(campaignID)
	defer unlock()

	c, err := e.loadLive(ctx, campaignID)
	if err != nil {
		return err
	}

	if c.Verified {
		return nil
	}

	c.Verified = true
	return e.commit(ctx, c)
}

// RequestRefund reverses every unrefunded donation by donor on the
// campaign and returns the total reversed. Eligible only when the
// deadline has passed, the goal was not met and funds have not been
// withdrawn.
func (e *Engine) RequestRefund(ctx context.Context, campaignID int64, donor string) (int64, error) {
	if donor == "" {
		return 0, fmt.Errorf("%w: donor is required", ErrInvalidInput)
	}

	unlock := e.lockCampaign(campaignID)
	defer unlock()

	c, err := e.loadLive(ctx, campaignID)
	if err != nil {
		return 0, err
	}

	deadlinePassed := !e.now().Before(c.Deadline)
	goalNotMet := c.AmountRaised < c.GoalAmount
	if !deadlinePassed || !goalNotMet || c.IsWithdrawn {
		return 0, ErrNotEligible
	}

	var refunded int64
	for i := range c.Donations {
		d := &c.Donations[i]
		if d.Donor == donor && !d.Refunded {
			d.Refunded = true
			refunded += d.Amount
		}
	}
	if refunded == 0 {
		return 0, ErrNoDonationFound
	}

	c.AmountRaised -= refunded
	if err := e.commit(ctx, c); err != nil {
		return 0, err
	}
	return refunded, nil
}

// DeleteCampaign tombstones a campaign. Owner or admin only. The
// record and its donation history survive for audit queries; the id is
// permanently dead for writes.
func (e *Engine) DeleteCampaign(ctx context.Context, campaignID int64, caller string) error {
	unlock := e.lockCampaign(campaignID)
	defer unlock()

	c, err := e.loadLive(ctx, campaignID)
	if err != nil {
		return err
	}

	roles := e.gate.Resolve(caller, &c)
	if !roles.Has(RoleOwner) && !roles.Has(RoleAdmin) {
		return ErrUnauthorized
	}

	c.Exists = false
	return e.commit(ctx, c)
}
