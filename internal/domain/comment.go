package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^[\w.+-]+@[\w-]+(\.[\w-]+)+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.ToLower(strings.TrimSpace(s)))
}

// Comment is a reader comment on an article. Comments are held for moderation
// until an admin approves them.
type Comment struct {
	ID           string
	ArticleID    string
	ArticleTitle string
	Author       string
	Email        string
	Body         string
	Approved     bool
	IPAddress    string
	UserAgent    string
	Country      string
	CreatedAt    time.Time
}

// Validate checks the constraints enforced on submission.
func (c *Comment) Validate() error {
	if c.ArticleID == "" {
		return fmt.Errorf("%w: article reference is required", ErrInvalid)
	}
	if strings.TrimSpace(c.Author) == "" {
		return fmt.Errorf("%w: user name is required", ErrInvalid)
	}
	if utf8.RuneCountInString(c.Author) > 50 {
		return fmt.Errorf("%w: user name cannot exceed 50 characters", ErrInvalid)
	}
	if !ValidEmail(c.Email) {
		return fmt.Errorf("%w: please enter a valid email", ErrInvalid)
	}
	body := strings.TrimSpace(c.Body)
	if body == "" {
		return fmt.Errorf("%w: comment cannot be empty", ErrInvalid)
	}
	if utf8.RuneCountInString(body) > 1000 {
		return fmt.Errorf("%w: comment cannot exceed 1000 characters", ErrInvalid)
	}
	return nil
}
