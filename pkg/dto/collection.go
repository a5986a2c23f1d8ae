package dto

import "time"

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type CollectionResponse struct {
	Success        bool       `json:"success"`
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Votes          int        `json:"votes"`
	IsFeatured     bool       `json:"isFeatured"`
	LastVoteUpdate *time.Time `json:"lastVoteUpdate"`
}

type CollectionSummary struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	ItemType          string     `json:"itemType"`
	Votes             int        `json:"votes"`
	IsFeatured        bool       `json:"isFeatured"`
	FeaturedUpdatedAt *time.Time `json:"featuredUpdatedAt"`
}

type FeaturedListResponse struct {
	Success bool                `json:"success"`
	Data    []CollectionSummary `json:"data"`
}

// FeatureRequest uses a pointer so a missing flag can be told apart from false.
type FeatureRequest struct {
	CollectionName string `json:"collectionName"`
	Featured       *bool  `json:"featured"`
}

type FeatureResponse struct {
	Success        bool   `json:"success"`
	CollectionName string `json:"collectionName"`
	Featured       bool   `json:"featured"`
	Matched        int    `json:"matched"`
	Modified       int    `json:"modified"`
	Upserted       int    `json:"upserted"`
}
