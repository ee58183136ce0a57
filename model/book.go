// model/book.go
package model

import "time"

type Book struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            *string   `json:"isbn,omitempty"`
	Description     *string   `json:"description,omitempty"`
	Category        *string   `json:"category,omitempty"`
	PublishedYear   *int      `json:"publishedYear,omitempty"`
	ImageURL        *string   `json:"imageUrl,omitempty"`
	TotalCopies     int       `json:"totalCopies"`
	AvailableCopies int       `json:"availableCopies"`
	Location        string    `json:"location"`
	CreatedAt       time.Time `json:"createdAt"`
}

// BookLocation is the slim projection for the shelf lookup endpoint.
type BookLocation struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Location        string `json:"location"`
	AvailableCopies int    `json:"availableCopies"`
	TotalCopies     int    `json:"totalCopies"`
}

// CreateBookReq represents the add-or-merge payload
// swagger:model CreateBookReq
type CreateBookReq struct {
	Title         string `json:"title" validate:"required"`
	Author        string `json:"author" validate:"required"`
	ISBN          string `json:"isbn"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	PublishedYear int    `json:"publishedYear" validate:"omitempty,gt=0"`
	TotalCopies   int    `json:"totalCopies" validate:"omitempty,gt=0"`
	Location      string `json:"location" validate:"required"`
	ImageURL      string `json:"imageUrl"`
}

// UpdateBookReq carries a partial update; nil means "leave as is".
type UpdateBookReq struct {
	Title           *string `json:"title"`
	Author          *string `json:"author"`
	ISBN            *string `json:"isbn"`
	Description     *string `json:"description"`
	Category        *string `json:"category"`
	PublishedYear   *int    `json:"publishedYear"`
	TotalCopies     *int    `json:"totalCopies" validate:"omitempty,gte=0"`
	AvailableCopies *int    `json:"availableCopies" validate:"omitempty,gte=0"`
	Location        *string `json:"location"`
	ImageURL        *string `json:"imageUrl"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}
