package repository

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrrconstruction/portfolio/internal/domain/entities"
	"github.com/rrrconstruction/portfolio/internal/infrastructure/config"
	"github.com/rrrconstruction/portfolio/internal/infrastructure/database"
	"github.com/rrrconstruction/portfolio/internal/infrastructure/logger"
)

func newTestStore(t *testing.T) *database.Store {
	t.Helper()
	s, err := database.New(config.StorageConfig{DataDir: t.TempDir()}, logger.NewNop())
	require.NoError(t, err)
	return s
}

func TestProjectRepository_CreatePrependsAndAllocates(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepository(newTestStore(t))

	for _, title := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(ctx, &entities.Project{Title: title}))
	}

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "third", items[0].Title)
	assert.Equal(t, 3, items[0].ID)
	assert.Equal(t, 1, items[2].ID)
}

func TestProjectRepository_DeletedIDNotReusedBelowMax(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepository(newTestStore(t))

	for i := 0; i < 4; i++ {
		require.NoError(t, repo.Create(ctx, &entities.Project{}))
	}
	_, err := repo.Delete(ctx, 2)
	require.NoError(t, err)

	p := &entities.Project{}
	require.NoError(t, repo.Create(ctx, p))
	assert.Equal(t, 5, p.ID)
}

func TestProjectRepository_GetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepository(newTestStore(t))
	require.NoError(t, repo.Create(ctx, &entities.Project{Title: "Bridge", Status: "Ongoing"}))

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Bridge", got.Title)

	updated, err := repo.Update(ctx, 1, func(p *entities.Project) error {
		p.Status = "Completed"
		p.ID = 99
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.ID)
	assert.Equal(t, "Completed", updated.Status)

	got, err = repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Completed", got.Status)

	removed, err := repo.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Bridge", removed.Title)

	_, err = repo.GetByID(ctx, 1)
	assert.ErrorIs(t, err, entities.ErrProjectNotFound)
}

func TestProjectRepository_DeleteMissingLeavesCollection(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewProjectRepository(store)
	require.NoError(t, repo.Create(ctx, &entities.Project{Title: "keep"}))

	before, err := os.ReadFile(store.Path(database.ProjectsFile))
	require.NoError(t, err)

	_, err = repo.Delete(ctx, 42)
	require.ErrorIs(t, err, entities.ErrProjectNotFound)

	after, err := os.ReadFile(store.Path(database.ProjectsFile))
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = repo.Update(ctx, 42, func(*entities.Project) error { return nil })
	assert.ErrorIs(t, err, entities.ErrProjectNotFound)
}

func TestProjectRepository_CorruptFileIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(database.ProjectsFile), []byte("garbage"), 0o600))
	repo := NewProjectRepository(store)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	p := &entities.Project{Title: "fresh"}
	require.NoError(t, repo.Create(ctx, p))
	assert.Equal(t, 1, p.ID)
}

func TestProjectRepository_NullEntriesIgnored(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(database.ProjectsFile), []byte(`[null, {"id": 3, "title": "x"}]`), 0o600))
	repo := NewProjectRepository(store)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].ID)
}

func TestMessageRepository_ConcurrentCreatesGetUniqueIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepository(newTestStore(t))
	const n = 25

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Create(ctx, &entities.Message{Status: entities.MessageStatusNew}))
		}()
	}
	wg.Wait()

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, n)

	seen := make(map[int]bool, n)
	for _, m := range items {
		assert.False(t, seen[m.ID], "duplicate id %d", m.ID)
		seen[m.ID] = true
	}
}

func TestTestimonialRepository_ErrNotFound(t *testing.T) {
	repo := NewTestimonialRepository(newTestStore(t))

	_, err := repo.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, entities.ErrTestimonialNotFound)
}

func TestAdminRepository_CreateIfMissing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewAdminRepository(store)

	cred, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, cred.IsZero())

	created, err := repo.CreateIfMissing(ctx, &entities.AdminCredential{Username: "admin", Password: "h1"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateIfMissing(ctx, &entities.AdminCredential{Username: "other", Password: "h2"})
	require.NoError(t, err)
	assert.False(t, created)

	cred, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin", cred.Username)
	assert.Equal(t, "h1", cred.Password)
	assert.FileExists(t, filepath.Join(store.Dir(), database.AdminFile))
}
