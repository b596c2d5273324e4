package helpers

import (
	"context"
	"sort"
	"sync"

	"github.com/andrescamacho/outfitting-go/internal/domain/outfitting"
	"github.com/andrescamacho/outfitting-go/internal/domain/shared"
)

// MockBuildRepository is an in-memory test double for BuildRepository
type MockBuildRepository struct {
	mu     sync.RWMutex
	builds map[string]*outfitting.SavedBuild // buildID -> build

	// SaveErr is returned by Save when set
	SaveErr error
}

// NewMockBuildRepository creates a new mock build repository
func NewMockBuildRepository() *MockBuildRepository {
	return &MockBuildRepository{
		builds: make(map[string]*outfitting.SavedBuild),
	}
}

// Save stores the build
func (m *MockBuildRepository) Save(ctx context.Context, build *outfitting.SavedBuild) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.builds[build.ID()] = build
	return nil
}

// FindByID retrieves a build by id
func (m *MockBuildRepository) FindByID(ctx context.Context, id string) (*outfitting.SavedBuild, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	build, ok := m.builds[id]
	if !ok {
		return nil, shared.NewBuildNotFoundError(id)
	}
	return build, nil
}

// ListByShip returns the builds of a ship type, newest first
func (m *MockBuildRepository) ListByShip(ctx context.Context, shipID string) ([]*outfitting.SavedBuild, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	builds := make([]*outfitting.SavedBuild, 0, len(m.builds))
	for _, build := range m.builds {
		if shipID == "" || build.ShipID() == shipID {
			builds = append(builds, build)
		}
	}
	sort.Slice(builds, func(i, j int) bool {
		if !builds[i].CreatedAt().Equal(builds[j].CreatedAt()) {
			return builds[i].CreatedAt().After(builds[j].CreatedAt())
		}
		return builds[i].Name() < builds[j].Name()
	})
	return builds, nil
}

// Delete removes a build by id
func (m *MockBuildRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.builds[id]; !ok {
		return shared.NewBuildNotFoundError(id)
	}
	delete(m.builds, id)
	return nil
}

// Count returns the number of stored builds
func (m *MockBuildRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.builds)
}
