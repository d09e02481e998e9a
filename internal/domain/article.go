package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is the closed set of sections an article can belong to.
type Category string

const (
	CategoryFootball   Category = "football"
	CategoryCricket    Category = "cricket"
	CategoryRugby      Category = "rugby"
	CategoryAthletics  Category = "athletics"
	CategoryWomen      Category = "women"
	CategoryBasketball Category = "basketball"
	CategoryTennis     Category = "tennis"
)

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{
		CategoryFootball,
		CategoryCricket,
		CategoryRugby,
		CategoryAthletics,
		CategoryWomen,
		CategoryBasketball,
		CategoryTennis,
	}
}

// ParseCategory normalizes and validates a category value from a request.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalid, s)
}

var titleCaser = cases.Title(language.English)

// DisplayName returns the category label used in emails and dashboards.
func (c Category) DisplayName() string {
	return titleCaser.String(string(c))
}

// Article is a published or draft news story.
type Article struct {
	ID        string
	Title     string
	Content   string
	Category  Category
	Image     string
	Author    string
	Published bool
	Featured  bool
	Views     int
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const excerptLen = 150

// Excerpt returns the leading part of the content for list views.
func (a *Article) Excerpt() string {
	if utf8.RuneCountInString(a.Content) <= excerptLen {
		return a.Content
	}
	runes := []rune(a.Content)
	return string(runes[:excerptLen]) + "..."
}

// Validate checks the constraints enforced on create and update.
func (a *Article) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if utf8.RuneCountInString(a.Title) > 1000 {
		return fmt.Errorf("%w: title cannot exceed 1000 characters", ErrInvalid)
	}
	if utf8.RuneCountInString(a.Content) < 50 {
		return fmt.Errorf("%w: content must be at least 50 characters long", ErrInvalid)
	}
	if _, err := ParseCategory(string(a.Category)); err != nil {
		return err
	}
	return nil
}

// ViewHistoryEntry is one calendar day of an article's own view history.
// An article has at most one entry per day and Views counts same-day views
// only, so the lifetime counter always equals the sum over the history.
type ViewHistoryEntry struct {
	Day   time.Time
	Views int
}

// ArticleFilter narrows article list queries.
type ArticleFilter struct {
	Category      Category
	FeaturedOnly  bool
	Search        string
	PublishedOnly bool
	Page          int
	Limit         int
}

// Offset returns the row offset for the filter's page, defaulting page and
// limit when unset.
func (f ArticleFilter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.PageLimit()
}

// PageLimit returns the effective page size.
func (f ArticleFilter) PageLimit() int {
	if f.Limit < 1 {
		return 12
	}
	return f.Limit
}
