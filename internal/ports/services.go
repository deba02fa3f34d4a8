package ports

import (
	"context"
	"io"

	"github.com/rrrconstruction/portfolio/internal/domain/entities"
)

// AuthService interface for admin authentication operations
type AuthService interface {
	EnsureAdmin(ctx context.Context) (bool, error)
	Authenticate(ctx context.Context, username, password string) (*AdminSession, error)
	IssueSession(session *AdminSession) (string, error)
	ParseSession(token string) (*AdminSession, error)
}

// ProjectService interface for project management operations
type ProjectService interface {
	List(ctx context.Context) ([]*entities.Project, error)
	Get(ctx context.Context, id int) (*entities.Project, error)
	Add(ctx context.Context, req CreateProjectRequest, image *FileUpload) (*entities.Project, error)
	Edit(ctx context.Context, id int, req UpdateProjectRequest, image *FileUpload) (*entities.Project, error)
	Delete(ctx context.Context, id int) error
}

// TestimonialService interface for testimonial management operations
type TestimonialService interface {
	List(ctx context.Context) ([]*entities.Testimonial, error)
	Get(ctx context.Context, id int) (*entities.Testimonial, error)
	Add(ctx context.Context, req CreateTestimonialRequest, image *FileUpload) (*entities.Testimonial, error)
	Edit(ctx context.Context, id int, req UpdateTestimonialRequest, image *FileUpload) (*entities.Testimonial, error)
	Delete(ctx context.Context, id int) error
}

// MessageService interface for contact inquiry operations
type MessageService interface {
	List(ctx context.Context) ([]*entities.Message, error)
	Get(ctx context.Context, id int) (*entities.Message, error)
	Submit(ctx context.Context, req ContactRequest) (*entities.Message, error)
	UpdateStatus(ctx context.Context, id int, req UpdateMessageStatusRequest) (*entities.Message, error)
	Delete(ctx context.Context, id int) error
}

// ImageStore stores and removes uploaded images
type ImageStore interface {
	// Accept validates and stores the upload. A nil upload or one without a
	// filename yields a nil name and a nil error.
	Accept(ctx context.Context, file *FileUpload) (*string, error)
	Remove(ctx context.Context, name string)
}

// FileUpload is an incoming file part
type FileUpload struct {
	Filename string
	Content  io.Reader
}

// AdminSession is the request-scoped view of the admin login state
type AdminSession struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username"`
}

// Request/Response Types

// Project related types
type CreateProjectRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Status      string `json:"status" validate:"required"`
}

// UpdateProjectRequest carries only the supplied fields; nil means keep.
type UpdateProjectRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	Category    *string `json:"category" validate:"omitempty,min=1"`
	Status      *string `json:"status" validate:"omitempty,min=1"`
}

// Testimonial related types
type CreateTestimonialRequest struct {
	Name    string `json:"name" validate:"required"`
	Company string `json:"company" validate:"required"`
	Text    string `json:"text" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
}

type UpdateTestimonialRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1"`
	Company *string `json:"company" validate:"omitempty,min=1"`
	Text    *string `json:"text" validate:"omitempty,min=1"`
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
}

// Message related types
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Service string `json:"service" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type UpdateMessageStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
