package models

import "time"

const (
	ItemTypeCollection = "collection"
	ItemTypeJersey     = "jersey"
	ItemTypeStadium    = "stadium"
	ItemTypeBadge      = "badge"
)

// Collection is a named, votable group of mintable items.
type Collection struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	ItemType          string     `json:"item_type"`
	Votes             int        `json:"votes"`
	VotedBy           []string   `json:"-"`
	IsFeatured        bool       `json:"is_featured"`
	LastVoteUpdate    *time.Time `json:"last_vote_update,omitempty"`
	FeaturedUpdatedAt *time.Time `json:"featured_updated_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// VoteRecord is the ranking view of a collection's vote count.
type VoteRecord struct {
	ItemID         string     `json:"itemId"`
	ItemType       string     `json:"itemType"`
	ItemName       string     `json:"itemName"`
	Votes          int        `json:"votes"`
	LastVoteUpdate *time.Time `json:"lastVoteUpdate,omitempty"`
}

type VoteResult struct {
	Accepted bool
	Votes    int
}

type FeatureResult struct {
	Matched  int
	Modified int
	Upserted int
}
