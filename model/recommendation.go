package model

import "time"

type Recommendation struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	BookID    int64     `json:"bookId"`
	Score     float64   `json:"score"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

// RecommendedBook is a candidate book with its freshly computed score.
type RecommendedBook struct {
	Book
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}
