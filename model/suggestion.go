// model/suggestion.go
package model

import "time"

type SuggestionStatus string

const (
	SuggestionPending   SuggestionStatus = "PENDING"
	SuggestionApproved  SuggestionStatus = "APPROVED"
	SuggestionRejected  SuggestionStatus = "REJECTED"
	SuggestionPurchased SuggestionStatus = "PURCHASED"
)

type PurchaseSuggestion struct {
	ID          int64            `json:"id"`
	BookTitle   string           `json:"bookTitle"`
	Author      *string          `json:"author,omitempty"`
	ISBN        *string          `json:"isbn,omitempty"`
	Reason      string           `json:"reason"`
	Priority    int              `json:"priority"`
	Status      SuggestionStatus `json:"status"`
	SuggestedBy int64            `json:"suggestedBy"`
	CreatedAt   time.Time        `json:"createdAt"`
}

type CreateSuggestionReq struct {
	BookTitle string `json:"bookTitle" validate:"required"`
	Author    string `json:"author"`
	ISBN      string `json:"isbn"`
	Reason    string `json:"reason" validate:"required"`
	Priority  int    `json:"priority"`
}

type UpdateSuggestionStatusReq struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED PURCHASED"`
}
