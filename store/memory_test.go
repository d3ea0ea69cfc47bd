package store

import (
	"context"
	"errors"
	"testing"
	"time"

	models "github.com/phillip/charity-ledger-go/models"
)

func TestMemorySequentialIDs(t *testing.T) {
	m := NewMemory()

	first, err := m.NextID(context.Background())
	if err != nil {
		t.Fatalf("next id: %v", err)
	}
	second, err := m.NextID(context.Background())
	if err != nil {
		t.Fatalf("next id: %v", err)
	}
	if first != 1 || second != 2 {
		t.Fatalf("expected 1,2 got %d,%d", first, second)
	}
}

func TestMemoryNotFound(t *testing.T) {
	m := NewMemory()

	if _, err := m.Get(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := m.Replace(context.Background(), models.Campaign{ID: 42}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("replace missing: expected ErrNotFound, got %v", err)
	}
}

func TestMemoryCopyOnRead(t *testing.T) {
	m := NewMemory()
	c := models.Campaign{
		ID:        1,
		Owner:     "0xowner",
		Exists:    true,
		Donors:    []string{"0xalice"},
		Donations: []models.Donation{{CampaignID: 1, Donor: "0xalice", Amount: 5}},
		Deadline:  time.Now().Add(time.Hour),
	}
	if err := m.Insert(context.Background(), c); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := m.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	// Mutating the returned aggregate must not leak into the store.
	got.Donors[0] = "0xevil"
	got.Donations[0].Amount = 999

	again, _ := m.Get(context.Background(), 1)
	if again.Donors[0] != "0xalice" || again.Donations[0].Amount != 5 {
		t.Fatalf("store shares memory with callers: %+v", again)
	}
}

func TestMemoryListOrder(t *testing.T) {
	m := NewMemory()
	for _, id := range []int64{3, 1, 2} {
		if err := m.Insert(context.Background(), models.Campaign{ID: id, Exists: true}); err != nil {
			t.Fatalf("insert %d: %v", id, err)
		}
	}

	all, err := m.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != 1 || all[2].ID != 3 {
		t.Fatalf("not in id order: %+v", all)
	}
}
