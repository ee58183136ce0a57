package bibliorepo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	openLibraryBase = "https://openlibrary.org"
	googleBooksBase = "https://www.googleapis.com"
)

type httpRepo struct {
	client *http.Client
	log    *slog.Logger

	// overridable for tests
	olBase string
	gbBase string
}

func NewHTTP(client *http.Client, log *slog.Logger) Repo {
	if client == nil {
		client = &http.Client{}
	}
	return &httpRepo{client: client, log: log, olBase: openLibraryBase, gbBase: googleBooksBase}
}

// LookupISBN tries Open Library first and falls back to Google Books.
// Upstream failures are logged and swallowed so one dead catalog never
// masks a hit in the other.
func (r *httpRepo) LookupISBN(ctx context.Context, isbn string) (*LookupResult, error) {
	if info, err := r.openLibrary(ctx, isbn); err != nil {
		r.log.Warn("open library lookup failed", "isbn", isbn, "err", err)
	} else if info != nil {
		return &LookupResult{Book: *info, Source: "Open Library"}, nil
	}

	if info, err := r.googleBooks(ctx, isbn); err != nil {
		r.log.Warn("google books lookup failed", "isbn", isbn, "err", err)
	} else if info != nil {
		return &LookupResult{Book: *info, Source: "Google Books"}, nil
	}

	return nil, ErrNotFound
}

type olBook struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Authors  []struct {
		Name string `json:"name"`
	} `json:"authors"`
	PublishDate string `json:"publish_date"`
	Excerpts    []struct {
		Text string `json:"text"`
	} `json:"excerpts"`
	Cover struct {
		Small  string `json:"small"`
		Medium string `json:"medium"`
		Large  string `json:"large"`
	} `json:"cover"`
}

func (r *httpRepo) openLibrary(ctx context.Context, isbn string) (*BookInfo, error) {
	u := fmt.Sprintf("%s/api/books?bibkeys=ISBN:%s&format=json&jscmd=data", r.olBase, url.QueryEscape(isbn))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open library status %s", resp.Status)
	}

	var payload map[string]olBook
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	b, ok := payload["ISBN:"+isbn]
	if !ok || b.Title == "" {
		return nil, nil
	}

	info := &BookInfo{
		Title:         b.Title,
		ISBN:          isbn,
		PublishedYear: parseYear(b.PublishDate),
	}
	if len(b.Authors) > 0 {
		info.Author = b.Authors[0].Name
	}
	switch {
	case b.Subtitle != "":
		info.Description = b.Subtitle
	case len(b.Excerpts) > 0:
		info.Description = b.Excerpts[0].Text
	}
	for _, c := range []string{b.Cover.Large, b.Cover.Medium, b.Cover.Small} {
		if c != "" {
			cover := c
			info.ImageURL = &cover
			break
		}
	}
	return info, nil
}

type gbVolume struct {
	VolumeInfo struct {
		Title         string   `json:"title"`
		Subtitle      string   `json:"subtitle"`
		Authors       []string `json:"authors"`
		Description   string   `json:"description"`
		PublishedDate string   `json:"publishedDate"`
		ImageLinks    struct {
			Thumbnail      string `json:"thumbnail"`
			SmallThumbnail string `json:"smallThumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

func (r *httpRepo) googleBooks(ctx context.Context, isbn string) (*BookInfo, error) {
	u := fmt.Sprintf("%s/books/v1/volumes?q=isbn:%s", r.gbBase, url.QueryEscape(isbn))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google books status %s", resp.Status)
	}

	var payload struct {
		Items []gbVolume `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if len(payload.Items) == 0 {
		return nil, nil
	}

	v := payload.Items[0].VolumeInfo
	if v.Title == "" {
		return nil, nil
	}
	info := &BookInfo{
		Title:         v.Title,
		Author:        strings.Join(v.Authors, ", "),
		ISBN:          isbn,
		PublishedYear: parseYear(v.PublishedDate),
	}
	if v.Description != "" {
		info.Description = v.Description
	} else {
		info.Description = v.Subtitle
	}
	for _, c := range []string{v.ImageLinks.Thumbnail, v.ImageLinks.SmallThumbnail} {
		if c != "" {
			cover := strings.Replace(c, "http://", "https://", 1)
			info.ImageURL = &cover
			break
		}
	}
	return info, nil
}

var yearRe = regexp.MustCompile(`\d{4}`)

func parseYear(date string) *int {
	m := yearRe.FindString(date)
	if m == "" {
		return nil
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &y
}
