package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/fridgelens/backend/internal/model"
	"github.com/fridgelens/backend/internal/service"
)

// MockRecipeGenerator is a mock implementation of the RecipeGenerator interface
type MockRecipeGenerator struct {
	mock.Mock
}

func (m *MockRecipeGenerator) GenerateRecipes(ctx context.Context, req service.GenerateRecipesRequest) ([]model.Recipe, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

// MockDishImageGenerator is a mock implementation of the DishImageGenerator interface
type MockDishImageGenerator struct {
	mock.Mock
}

func (m *MockDishImageGenerator) GenerateDishImage(ctx context.Context, name, description string) (string, error) {
	args := m.Called(ctx, name, description)
	return args.String(0), args.Error(1)
}

// MockIngredientIdentifier is a mock implementation of the IngredientIdentifier interface
type MockIngredientIdentifier struct {
	mock.Mock
}

func (m *MockIngredientIdentifier) IdentifyIngredients(ctx context.Context, images [][]byte) ([]model.AvailableIngredient, error) {
	args := m.Called(ctx, images)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AvailableIngredient), args.Error(1)
}

// MockTranslator is a mock implementation of the Translator interface
type MockTranslator struct {
	mock.Mock
}

func (m *MockTranslator) TranslateStrings(ctx context.Context, language string, strings map[string]string) (map[string]string, error) {
	args := m.Called(ctx, language, strings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

// NopSleeper skips the inter-image pacing delay so pipeline tests finish
// immediately.
type NopSleeper struct{}

func (NopSleeper) Sleep(ctx context.Context, d time.Duration) {}

// InMemorySnapshotStore is a thread-safe SnapshotStore for tests. It records
// every published snapshot in order so tests can assert on the sequence, not
// just the final state.
type InMemorySnapshotStore struct {
	mu      sync.Mutex
	latest  map[string]service.Snapshot
	history []service.Snapshot
}

func NewInMemorySnapshotStore() *InMemorySnapshotStore {
	return &InMemorySnapshotStore{latest: make(map[string]service.Snapshot)}
}

func (s *InMemorySnapshotStore) Save(ctx context.Context, snapshot service.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[snapshot.BatchID] = snapshot
	s.history = append(s.history, snapshot)
	return nil
}

func (s *InMemorySnapshotStore) Get(ctx context.Context, batchID string) (service.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.latest[batchID]
	if !ok {
		return service.Snapshot{}, service.ErrBatchNotFound
	}
	return snap, nil
}

// History returns a copy of every snapshot saved so far, in publication order.
func (s *InMemorySnapshotStore) History() []service.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]service.Snapshot, len(s.history))
	copy(out, s.history)
	return out
}
