package bibliorepo

import (
	"context"
	"errors"
)

// BookInfo is the normalized shape both upstream catalogs are mapped to.
type BookInfo struct {
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	ISBN          string  `json:"isbn"`
	Description   string  `json:"description"`
	PublishedYear *int    `json:"publishedYear"`
	ImageURL      *string `json:"imageUrl"`
}

type LookupResult struct {
	Book   BookInfo `json:"book"`
	Source string   `json:"source"`
}

// ErrNotFound means neither catalog knows the ISBN.
var ErrNotFound = errors.New("isbn not found in any source")

type Repo interface {
	LookupISBN(ctx context.Context, isbn string) (*LookupResult, error)
}
