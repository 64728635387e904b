package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/consumewise/backend/internal/domain"
)

const validLabelJSON = `{
	"productName": "Dark Chocolate 70%",
	"brandName": "Acme",
	"ingredients": [{"name": "Cocoa mass", "percent": "70", "metadata": ""}],
	"servingSize": {"quantity": 25, "unit": "g"},
	"packagingSize": {"quantity": 100, "unit": "g"},
	"servingsPerPack": 4,
	"nutritionalInformation": [
		{"name": "Energy", "unit": "kcal", "values": [{"base": "per 100g", "value": 580}]}
	],
	"fssaiLicenseNumbers": [10012345678901],
	"claims": [],
	"shelfLife": "12 months"
}`

// MockVisionExtractor is a mock implementation of domain.VisionExtractor
type MockVisionExtractor struct {
	payload  string
	err      error
	requests []domain.ExtractionRequest
}

func NewMockVisionExtractor(payload string) *MockVisionExtractor {
	return &MockVisionExtractor{payload: payload}
}

func (m *MockVisionExtractor) ExtractStructured(ctx context.Context, request domain.ExtractionRequest) (string, error) {
	m.requests = append(m.requests, request)
	if m.err != nil {
		return "", m.err
	}
	return m.payload, nil
}

// MockExtractor is a mock implementation of Extractor
type MockExtractor struct {
	record *domain.ProductRecord
	err    error
	calls  int
}

func (m *MockExtractor) Extract(ctx context.Context, imageURLs []string) (*domain.ProductRecord, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.record, nil
}

// MockProductRepository is an in-memory mock of domain.ProductRepository.
// Name matching is a case-insensitive literal substring match.
type MockProductRepository struct {
	mu         sync.Mutex
	products   []domain.StoredProduct
	insertErr  error
	findErr    error
	failOnTerm string
	terms      []string
}

func NewMockProductRepository(records ...domain.ProductRecord) *MockProductRepository {
	m := &MockProductRepository{}
	for i, record := range records {
		m.products = append(m.products, domain.StoredProduct{
			ID:            fmt.Sprintf("id-%d", i),
			ProductRecord: record,
		})
	}
	return m
}

func (m *MockProductRepository) Insert(ctx context.Context, record *domain.ProductRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return "", m.insertErr
	}
	id := fmt.Sprintf("id-%d", len(m.products))
	m.products = append(m.products, domain.StoredProduct{ID: id, ProductRecord: *record})
	return id, nil
}

func (m *MockProductRepository) FindByNameContains(ctx context.Context, term string) ([]domain.StoredProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.terms = append(m.terms, term)
	if m.findErr != nil && (m.failOnTerm == "" || m.failOnTerm == term) {
		return nil, m.findErr
	}

	var matches []domain.StoredProduct
	for _, product := range m.products {
		if strings.Contains(strings.ToLower(product.ProductName), strings.ToLower(term)) {
			matches = append(matches, product)
		}
	}
	return matches, nil
}

func (m *MockProductRepository) FindOneByName(ctx context.Context, name string) (*domain.StoredProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, product := range m.products {
		if product.ProductName == name {
			found := product
			return &found, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (m *MockProductRepository) queriedTerms() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.terms...)
}
