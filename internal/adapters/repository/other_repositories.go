package repository

import (
	"context"

	"github.com/rrrconstruction/portfolio/internal/domain/entities"
	"github.com/rrrconstruction/portfolio/internal/infrastructure/database"
	"github.com/rrrconstruction/portfolio/internal/ports"
)

// TestimonialRepositoryImpl implements the TestimonialRepository interface
type TestimonialRepositoryImpl struct {
	items *collection[entities.Testimonial, *entities.Testimonial]
}

// NewTestimonialRepository creates a new testimonial repository
func NewTestimonialRepository(store *database.Store) ports.TestimonialRepository {
	return &TestimonialRepositoryImpl{
		items: newCollection[entities.Testimonial, *entities.Testimonial](store, database.TestimonialsFile, entities.ErrTestimonialNotFound),
	}
}

func (r *TestimonialRepositoryImpl) Create(ctx context.Context, testimonial *entities.Testimonial) error {
	return r.items.create(ctx, testimonial)
}

func (r *TestimonialRepositoryImpl) GetByID(ctx context.Context, id int) (*entities.Testimonial, error) {
	return r.items.get(ctx, id)
}

func (r *TestimonialRepositoryImpl) Update(ctx context.Context, id int, fn func(*entities.Testimonial) error) (*entities.Testimonial, error) {
	return r.items.update(ctx, id, fn)
}

func (r *TestimonialRepositoryImpl) Delete(ctx context.Context, id int) (*entities.Testimonial, error) {
	return r.items.delete(ctx, id)
}

func (r *TestimonialRepositoryImpl) List(ctx context.Context) ([]*entities.Testimonial, error) {
	return r.items.list(ctx)
}

// MessageRepositoryImpl implements the MessageRepository interface
type MessageRepositoryImpl struct {
	items *collection[entities.Message, *entities.Message]
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(store *database.Store) ports.MessageRepository {
	return &MessageRepositoryImpl{
		items: newCollection[entities.Message, *entities.Message](store, database.MessagesFile, entities.ErrMessageNotFound),
	}
}

func (r *MessageRepositoryImpl) Create(ctx context.Context, message *entities.Message) error {
	return r.items.create(ctx, message)
}

func (r *MessageRepositoryImpl) GetByID(ctx context.Context, id int) (*entities.Message, error) {
	return r.items.get(ctx, id)
}

func (r *MessageRepositoryImpl) Update(ctx context.Context, id int, fn func(*entities.Message) error) (*entities.Message, error) {
	return r.items.update(ctx, id, fn)
}

func (r *MessageRepositoryImpl) Delete(ctx context.Context, id int) (*entities.Message, error) {
	return r.items.delete(ctx, id)
}

func (r *MessageRepositoryImpl) List(ctx context.Context) ([]*entities.Message, error) {
	return r.items.list(ctx)
}

// AdminRepositoryImpl implements the AdminRepository interface
type AdminRepositoryImpl struct {
	store *database.Store
}

// NewAdminRepository creates a new admin credential repository
func NewAdminRepository(store *database.Store) ports.AdminRepository {
	return &AdminRepositoryImpl{store: store}
}

func (r *AdminRepositoryImpl) Get(ctx context.Context) (*entities.AdminCredential, error) {
	cred, err := database.View(ctx, r.store, database.AdminFile, entities.AdminCredential{})
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

func (r *AdminRepositoryImpl) CreateIfMissing(ctx context.Context, cred *entities.AdminCredential) (bool, error) {
	created := false

	err := database.Transact(ctx, r.store, database.AdminFile, entities.AdminCredential{}, func(current entities.AdminCredential) (entities.AdminCredential, error) {
		if !current.IsZero() {
			return current, nil
		}
		created = true
		return *cred, nil
	})
	if err != nil {
		return false, err
	}

	return created, nil
}
