package dto

import "time"

type VoteRequest struct {
	CollectionName string `json:"collectionName"`
	WalletAddress  string `json:"walletAddress"`
}

type VoteResponse struct {
	Success  bool `json:"success"`
	Accepted bool `json:"accepted"`
	Votes    int  `json:"votes"`
}

type VoteStatusResponse struct {
	Success   bool `json:"success"`
	UserVoted bool `json:"userVoted"`
	Votes     int  `json:"votes"`
}

type VoteRecord struct {
	ItemID         string     `json:"itemId"`
	ItemType       string     `json:"itemType"`
	ItemName       string     `json:"itemName"`
	Votes          int        `json:"votes"`
	LastVoteUpdate *time.Time `json:"lastVoteUpdate"`
}

type MostVotedResponse struct {
	Success bool       `json:"success"`
	Data    VoteRecord `json:"data"`
}
