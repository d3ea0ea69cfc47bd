package store

import (
	"context"
	"sort"
	"sync"

	models "github.com/phillip/charity-ledger-go/models"
)

// Memory is an in-memory CampaignStore. It is safe for concurrent use
// and is primarily intended for tests and local development.
type Memory struct {
	mu        sync.RWMutex
	nextID    int64
	campaigns map[int64]models.Campaign
}

var _ CampaignStore = (*Memory)(nil)

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{
		nextID:    1,
		campaigns: make(map[int64]models.Campaign),
	}
}

func (m *Memory) NextID(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	return id, nil
}

func (m *Memory) Insert(_ context.Context, c models.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.campaigns[c.ID] = cloneCampaign(c)
	return nil
}

func (m *Memory) Get(_ context.Context, id int64) (models.Campaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.campaigns[id]
	if !ok {
		return models.Campaign{}, ErrNotFound
	}
	return cloneCampaign(c), nil
}

func (m *Memory) Replace(_ context.Context, c models.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.campaigns[c.ID]; !ok {
		return ErrNotFound
	}
	m.campaigns[c.ID] = cloneCampaign(c)
	return nil
}

func (m *Memory) List(_ context.Context) ([]models.Campaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Campaign, 0, len(m.campaigns))
	for _, c := range m.campaigns {
		out = append(out, cloneCampaign(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// cloneCampaign deep-copies the slices so callers never share backing
// arrays with the stored aggregate.
func cloneCampaign(c models.Campaign) models.Campaign {
	c.Donors = append([]string(nil), c.Donors...)
	c.Donations = append([]models.Donation(nil), c.Donations...)
	return c
}
