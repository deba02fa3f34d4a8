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

// ProjectService handles project-related operations
type ProjectService struct {
	projectRepo ports.ProjectRepository
	images      ports.ImageStore
	validate    *validator.Validate
	logger      *logger.Logger
	now         func() time.Time
}

// NewProjectService creates a new project service
func NewProjectService(projectRepo ports.ProjectRepository, images ports.ImageStore, validate *validator.Validate, logger *logger.Logger) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		images:      images,
		validate:    validate,
		logger:      logger,
		now:         time.Now,
	}
}

var _ ports.ProjectService = (*ProjectService)(nil)

// List returns all projects, newest first
func (s *ProjectService) List(ctx context.Context) ([]*entities.Project, error) {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	entities.SortProjectsNewestFirst(projects)
	return projects, nil
}

// Get retrieves a project by ID
func (s *ProjectService) Get(ctx context.Context, id int) (*entities.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get project %d: %w", id, err)
	}

	return project, nil
}

// Add creates a new project with an optional image
func (s *ProjectService) Add(ctx context.Context, req ports.CreateProjectRequest, image *ports.FileUpload) (*entities.Project, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	stored, err := s.images.Accept(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("failed to store project image: %w", err)
	}

	project := &entities.Project{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Status:      req.Status,
		Image:       stored,
		DateCreated: entities.FormatDate(s.now()),
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		if stored != nil {
			s.images.Remove(ctx, *stored)
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info("Project created successfully", "project_id", project.ID, "title", project.Title)

	return project, nil
}

// Edit overwrites the supplied fields of a project and optionally replaces
// its image. The replaced image file is removed once the record is saved.
func (s *ProjectService) Edit(ctx context.Context, id int, req ports.UpdateProjectRequest, image *ports.FileUpload) (*entities.Project, error) {
	if _, err := s.projectRepo.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to get project %d: %w", id, err)
	}

	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	stored, err := s.images.Accept(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("failed to store project image: %w", err)
	}

	var replaced *string
	project, err := s.projectRepo.Update(ctx, id, func(p *entities.Project) error {
		if req.Title != nil {
			p.Title = *req.Title
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.Category != nil {
			p.Category = *req.Category
		}
		if req.Status != nil {
			p.Status = *req.Status
		}
		if stored != nil {
			replaced = p.Image
			p.Image = stored
		}
		return nil
	})
	if err != nil {
		if stored != nil {
			s.images.Remove(ctx, *stored)
		}
		return nil, fmt.Errorf("failed to update project %d: %w", id, err)
	}

	if replaced != nil {
		s.images.Remove(ctx, *replaced)
	}

	s.logger.Info("Project updated successfully", "project_id", project.ID, "title", project.Title)

	return project, nil
}

// Delete deletes a project and its image
func (s *ProjectService) Delete(ctx context.Context, id int) error {
	removed, err := s.projectRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete project %d: %w", id, err)
	}

	if removed.Image != nil {
		s.images.Remove(ctx, *removed.Image)
	}

	s.logger.Info("Project deleted successfully", "project_id", id)

	return nil
}
