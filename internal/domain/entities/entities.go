package entities

import (
	"errors"
	"sort"
	"time"
)

// Common errors
var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrTestimonialNotFound = errors.New("testimonial not found")
	ErrMessageNotFound     = errors.New("message not found")
	ErrValidation          = errors.New("validation failed")
	ErrInvalidFileType     = errors.New("invalid file type")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrUnauthorized        = errors.New("unauthorized")
)

const (
	// DateLayout is the layout of Project and Testimonial creation dates.
	DateLayout = "2006-01-02"
	// TimestampLayout is the layout of Message timestamps.
	TimestampLayout = "2006-01-02T15:04:05.000000"
)

// MessageStatusNew is assigned to every freshly submitted inquiry.
const MessageStatusNew = "New"

// Identifiable is implemented by every record kept in a collection.
type Identifiable interface {
	EntityID() int
}

// Project represents a portfolio project
type Project struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Status      string  `json:"status"`
	Image       *string `json:"image"`
	DateCreated string  `json:"date_created"`
}

func (p *Project) EntityID() int { return p.ID }

func (p *Project) SetEntityID(id int) { p.ID = id }

// Testimonial represents a client testimonial shown on the homepage
type Testimonial struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Company     string  `json:"company"`
	Text        string  `json:"text"`
	Rating      int     `json:"rating"`
	Image       *string `json:"image"`
	DateCreated string  `json:"date_created"`
}

func (t *Testimonial) EntityID() int { return t.ID }

func (t *Testimonial) SetEntityID(id int) { t.ID = id }

// Message represents a contact inquiry submitted by a visitor
type Message struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Service   string `json:"service"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
}

func (m *Message) EntityID() int { return m.ID }

func (m *Message) SetEntityID(id int) { m.ID = id }

// AdminCredential is the singleton administrator account. Password holds a
// bcrypt hash, never the plain value.
type AdminCredential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// IsZero reports whether the credential document is missing or empty.
func (a *AdminCredential) IsZero() bool {
	return a == nil || a.Username == "" || a.Password == ""
}

// NextID returns 1 for an empty collection and max(id)+1 otherwise. Ids left
// free by deletions below the maximum are never handed out again.
func NextID[T Identifiable](items []T) int {
	max := 0
	for _, item := range items {
		if id := item.EntityID(); id > max {
			max = id
		}
	}
	return max + 1
}

// FormatDate formats t as a creation date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatTimestamp formats t as a message timestamp.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// SortProjectsNewestFirst orders projects by creation date, newest first.
// Equal dates keep their stored order.
func SortProjectsNewestFirst(projects []*Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].DateCreated > projects[j].DateCreated
	})
}

// SortTestimonialsNewestFirst orders testimonials by creation date, newest first.
func SortTestimonialsNewestFirst(testimonials []*Testimonial) {
	sort.SliceStable(testimonials, func(i, j int) bool {
		return testimonials[i].DateCreated > testimonials[j].DateCreated
	})
}

// SortMessagesNewestFirst orders messages by timestamp, newest first.
func SortMessagesNewestFirst(messages []*Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp > messages[j].Timestamp
	})
}
