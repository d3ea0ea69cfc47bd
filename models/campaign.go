package models

import (
	"time"
)

type Campaign struct {
	ID           int64      `bson:"_id" json:"id"`
	Owner        string     `bson:"owner" json:"owner"`
	Title        string     `bson:"title" json:"title"`
	Description  string     `bson:"description" json:"description"`
	DocumentRef  string     `bson:"document_ref,omitempty" json:"document_ref,omitempty"` // content address + extension, e.g. "bafy...abc.pdf"
	Category     string     `bson:"category" json:"category"`
	GoalAmount   int64      `bson:"goal_amount" json:"goal_amount"`
	Deadline     time.Time  `bson:"deadline" json:"deadline"`
	AmountRaised int64      `bson:"amount_raised" json:"amount_raised"`
	Verified     bool       `bson:"verified" json:"verified"`
	IsWithdrawn  bool       `bson:"is_withdrawn" json:"is_withdrawn"`
	Exists       bool       `bson:"exists" json:"exists"`
	Donors       []string   `bson:"donors" json:"donors"` // distinct donor addresses, insertion order
	Donations    []Donation `bson:"donations" json:"-"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
}

// HasDonor reports whether addr has donated to this campaign.
func (c *Campaign) HasDonor(addr string) bool {
	for _, d := range c.Donors {
		if d == addr {
			return true
		}
	}
	return false
}

// Categories a campaign may be filed under.
var Categories = []string{
	"Medical",
	"Memorial",
	"Emergency",
	"Nonprofit",
	"Education",
	"Animal",
	"Environment",
	"Business",
	"Community",
	"Competition",
	"Creative",
	"Event",
	"Faith",
	"Family",
	"Sports",
	"Travel",
	"Volunteer",
	"Wishes",
}

func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
