package repository

import (
	"context"

	"github.com/rrrconstruction/portfolio/internal/domain/entities"
	"github.com/rrrconstruction/portfolio/internal/infrastructure/database"
	"github.com/rrrconstruction/portfolio/internal/ports"
)

// ProjectRepositoryImpl implements the ProjectRepository interface
type ProjectRepositoryImpl struct {
	items *collection[entities.Project, *entities.Project]
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(store *database.Store) ports.ProjectRepository {
	return &ProjectRepositoryImpl{
		items: newCollection[entities.Project, *entities.Project](store, database.ProjectsFile, entities.ErrProjectNotFound),
	}
}

func (r *ProjectRepositoryImpl) Create(ctx context.Context, project *entities.Project) error {
	return r.items.create(ctx, project)
}

func (r *ProjectRepositoryImpl) GetByID(ctx context.Context, id int) (*entities.Project, error) {
	return r.items.get(ctx, id)
}

func (r *ProjectRepositoryImpl) Update(ctx context.Context, id int, fn func(*entities.Project) error) (*entities.Project, error) {
	return r.items.update(ctx, id, fn)
}

func (r *ProjectRepositoryImpl) Delete(ctx context.Context, id int) (*entities.Project, error) {
	return r.items.delete(ctx, id)
}

func (r *ProjectRepositoryImpl) List(ctx context.Context) ([]*entities.Project, error) {
	return r.items.list(ctx)
}
