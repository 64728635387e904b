package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/consumewise/backend/internal/domain"
	"github.com/google/uuid"
)

// MemoryStore is a thread-safe in-memory product store.
// It keeps insertion order, which is the order matches are returned in.
type MemoryStore struct {
	products []domain.StoredProduct
	mutex    sync.RWMutex
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Insert stores a copy of the record under a fresh UUID
func (s *MemoryStore) Insert(ctx context.Context, record *domain.ProductRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Serialize to JSON and back so later changes to record never leak in.
	// This mimics a real document store.
	stored, err := cloneRecord(record)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.products = append(s.products, domain.StoredProduct{ID: id, ProductRecord: *stored})

	return id, nil
}

// FindByNameContains returns products whose name contains term, ignoring case
func (s *MemoryStore) FindByNameContains(ctx context.Context, term string) ([]domain.StoredProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	needle := strings.ToLower(term)

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var matches []domain.StoredProduct
	for _, product := range s.products {
		if strings.Contains(strings.ToLower(product.ProductName), needle) {
			matches = append(matches, product)
		}
	}

	return matches, nil
}

// FindOneByName returns the first product whose name equals name
func (s *MemoryStore) FindOneByName(ctx context.Context, name string) (*domain.StoredProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, product := range s.products {
		if product.ProductName == name {
			found := product
			return &found, nil
		}
	}

	return nil, domain.ErrProductNotFound
}

// Size returns the current number of stored products (for debugging/monitoring)
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.products)
}

// Clear removes all products
func (s *MemoryStore) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.products = nil
}

func cloneRecord(record *domain.ProductRecord) (*domain.ProductRecord, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to encode product: %w", err)
	}

	var clone domain.ProductRecord
	if err := json.Unmarshal(data, &clone); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}

	return &clone, nil
}
