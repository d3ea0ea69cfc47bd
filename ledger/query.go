package ledger

import (
	"context"
	"errors"
	"fmt"

	models "github.com/phillip/charity-ledger-go/models"
	store "github.com/phillip/charity-ledger-go/store"
)

// Read projections. Each call observes whole aggregates that are only
// ever replaced atomically, so a campaign's raised amount, donor set
// and donation list are always mutually consistent.

// GetCampaign returns one live campaign. Tombstones report
// ErrCampaignNotFound here; use ListDonations for their history.
func (e *Engine) GetCampaign(ctx context.Context, id int64) (models.Campaign, error) {
	return e.loadLive(ctx, id)
}

// ListCampaigns returns every live campaign in creation order.
func (e *Engine) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	return e.listWhere(ctx, func(c *models.Campaign) bool {
		return c.Exists
	})
}

// ListCampaignsByCategory filters live campaigns by category tag.
func (e *Engine) ListCampaignsByCategory(ctx context.Context, category string) ([]models.Campaign, error) {
	return e.listWhere(ctx, func(c *models.Campaign) bool {
		return c.Exists && c.Category == category
	})
}

// ListCampaignsByOwner filters live campaigns by owner address.
func (e *Engine) ListCampaignsByOwner(ctx context.Context, owner string) ([]models.Campaign, error) {
	return e.listWhere(ctx, func(c *models.Campaign) bool {
		return c.Exists && c.Owner == owner
	})
}

// ListDonations returns a campaign's donations in insertion order,
// refunded ones included. Works on tombstones: donation history
// survives deletion.
func (e *Engine) ListDonations(ctx context.Context, campaignID int64) ([]models.Donation, error) {
	c, err := e.store.Get(ctx, campaignID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrCampaignNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return c.Donations, nil
}

// DonationHistory returns every unrefunded donation by donor across
// all campaigns, as (campaign title, amount) rows in campaign order.
func (e *Engine) DonationHistory(ctx context.Context, donor string) ([]models.HistoryEntry, error) {
	campaigns, err := e.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	history := []models.HistoryEntry{}
	for _, c := range campaigns {
		for _, d := range c.Donations {
			if d.Donor == donor && !d.Refunded {
				history = append(history, models.HistoryEntry{
					CampaignID:    c.ID,
					CampaignTitle: c.Title,
					Amount:        d.Amount,
				})
			}
		}
	}
	return history, nil
}

func (e *Engine) listWhere(ctx context.Context, keep func(*models.Campaign) bool) ([]models.Campaign, error) {
	campaigns, err := e.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	out := []models.Campaign{}
	for _, c := range campaigns {
		if keep(&c) {
			out = append(out, c)
		}
	}
	return out, nil
}
