package models

import (
	"time"
)

type Donation struct {
	CampaignID int64     `bson:"campaign_id" json:"campaign_id"`
	Donor      string    `bson:"donor" json:"donor"`
	Amount     int64     `bson:"amount" json:"amount"`
	Message    string    `bson:"message,omitempty" json:"message,omitempty"`
	Refunded   bool      `bson:"refunded" json:"refunded"`
	Sequence   int       `bson:"sequence" json:"sequence"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// HistoryEntry is one row of a donor's cross-campaign donation history.
type HistoryEntry struct {
	CampaignID    int64  `json:"campaign_id"`
	CampaignTitle string `json:"campaign_title"`
	Amount        int64  `json:"amount"`
}
