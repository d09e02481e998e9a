package domain

import "time"

// Subscriber is a newsletter recipient. Unsubscribing deactivates the row
// instead of deleting it so the address stays deduplicated.
type Subscriber struct {
	ID             string
	Email          string
	Active         bool
	Source         string
	UnsubscribedAt *time.Time
	CreatedAt      time.Time
}

// Contact is a message submitted through the contact form.
type Contact struct {
	ID        string
	Name      string
	Email     string
	Subject   string
	Body      string
	Read      bool
	Replied   bool
	IPAddress string
	CreatedAt time.Time
}
