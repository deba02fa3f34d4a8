package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rrrconstruction/portfolio/internal/domain/entities"
	"github.com/rrrconstruction/portfolio/internal/infrastructure/logger"
	"github.com/rrrconstruction/portfolio/internal/ports"
)

// TestimonialService handles testimonial-related operations
type TestimonialService struct {
	testimonialRepo ports.TestimonialRepository
	images          ports.ImageStore
	validate        *validator.Validate
	logger          *logger.Logger
	now             func() time.Time
}

// NewTestimonialService creates a new testimonial service
func NewTestimonialService(testimonialRepo ports.TestimonialRepository, images ports.ImageStore, validate *validator.Validate, logger *logger.Logger) *TestimonialService {
	return &TestimonialService{
		testimonialRepo: testimonialRepo,
		images:          images,
		validate:        validate,
		logger:          logger,
		now:             time.Now,
	}
}

var _ ports.TestimonialService = (*TestimonialService)(nil)

func (s *TestimonialService) List(ctx context.Context) ([]*entities.Testimonial, error) {
	testimonials, err := s.testimonialRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}

	entities.SortTestimonialsNewestFirst(testimonials)
	return testimonials, nil
}

func (s *TestimonialService) Get(ctx context.Context, id int) (*entities.Testimonial, error) {
	testimonial, err := s.testimonialRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get testimonial %d: %w", id, err)
	}

	return testimonial, nil
}

func (s *TestimonialService) Add(ctx context.Context, req ports.CreateTestimonialRequest, image *ports.FileUpload) (*entities.Testimonial, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	stored, err := s.images.Accept(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("failed to store testimonial image: %w", err)
	}

	testimonial := &entities.Testimonial{
		Name:        req.Name,
		Company:     req.Company,
		Text:        req.Text,
		Rating:      req.Rating,
		Image:       stored,
		DateCreated: entities.FormatDate(s.now()),
	}

	if err := s.testimonialRepo.Create(ctx, testimonial); err != nil {
		if stored != nil {
			s.images.Remove(ctx, *stored)
		}
		return nil, fmt.Errorf("failed to create testimonial: %w", err)
	}

	s.logger.Info("Testimonial created successfully", "testimonial_id", testimonial.ID, "name", testimonial.Name)

	return testimonial, nil
}

func (s *TestimonialService) Edit(ctx context.Context, id int, req ports.UpdateTestimonialRequest, image *ports.FileUpload) (*entities.Testimonial, error) {
	if _, err := s.testimonialRepo.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to get testimonial %d: %w", id, err)
	}

	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	stored, err := s.images.Accept(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("failed to store testimonial image: %w", err)
	}

	var replaced *string
	testimonial, err := s.testimonialRepo.Update(ctx, id, func(t *entities.Testimonial) error {
		if req.Name != nil {
			t.Name = *req.Name
		}
		if req.Company != nil {
			t.Company = *req.Company
		}
		if req.Text != nil {
			t.Text = *req.Text
		}
		if req.Rating != nil {
			t.Rating = *req.Rating
		}
		if stored != nil {
			replaced = t.Image
			t.Image = stored
		}
		return nil
	})
	if err != nil {
		if stored != nil {
			s.images.Remove(ctx, *stored)
		}
		return nil, fmt.Errorf("failed to update testimonial %d: %w", id, err)
	}

	if replaced != nil {
		s.images.Remove(ctx, *replaced)
	}

	s.logger.Info("Testimonial updated successfully", "testimonial_id", testimonial.ID)

	return testimonial, nil
}

func (s *TestimonialService) Delete(ctx context.Context, id int) error {
	removed, err := s.testimonialRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete testimonial %d: %w", id, err)
	}

	if removed.Image != nil {
		s.images.Remove(ctx, *removed.Image)
	}

	s.logger.Info("Testimonial deleted successfully", "testimonial_id", id)

	return nil
}
