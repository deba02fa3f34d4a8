package ports

import (
	"context"

	"github.com/rrrconstruction/portfolio/internal/domain/entities"
)

// ProjectRepository defines the interface for project data operations
type ProjectRepository interface {
	// Create assigns the next id to project and prepends it.
	Create(ctx context.Context, project *entities.Project) error
	GetByID(ctx context.Context, id int) (*entities.Project, error)
	// Update applies fn to the stored project and persists the result.
	Update(ctx context.Context, id int, fn func(*entities.Project) error) (*entities.Project, error)
	// Delete removes the project and returns it as it was stored.
	Delete(ctx context.Context, id int) (*entities.Project, error)
	List(ctx context.Context) ([]*entities.Project, error)
}

// TestimonialRepository defines the interface for testimonial data operations
type TestimonialRepository interface {
	Create(ctx context.Context, testimonial *entities.Testimonial) error
	GetByID(ctx context.Context, id int) (*entities.Testimonial, error)
	Update(ctx context.Context, id int, fn func(*entities.Testimonial) error) (*entities.Testimonial, error)
	Delete(ctx context.Context, id int) (*entities.Testimonial, error)
	List(ctx context.Context) ([]*entities.Testimonial, error)
}

// MessageRepository defines the interface for contact message data operations
type MessageRepository interface {
	Create(ctx context.Context, message *entities.Message) error
	GetByID(ctx context.Context, id int) (*entities.Message, error)
	Update(ctx context.Context, id int, fn func(*entities.Message) error) (*entities.Message, error)
	Delete(ctx context.Context, id int) (*entities.Message, error)
	List(ctx context.Context) ([]*entities.Message, error)
}

// AdminRepository defines the interface for the admin credential singleton
type AdminRepository interface {
	// Get returns the stored credential, or an empty one when none exists.
	Get(ctx context.Context) (*entities.AdminCredential, error)
	// CreateIfMissing stores cred only when no usable credential exists and
	// reports whether it did.
	CreateIfMissing(ctx context.Context, cred *entities.AdminCredential) (bool, error)
}
