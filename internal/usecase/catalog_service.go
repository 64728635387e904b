package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/consumewise/backend/internal/domain"
	"github.com/consumewise/backend/internal/schema"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Extractor is the extraction capability the catalog depends on
type Extractor interface {
	Extract(ctx context.Context, imageURLs []string) (*domain.ProductRecord, error)
}

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	// SearchParallelism bounds concurrent term queries; 1 or less queries
	// terms one after another
	SearchParallelism int
}

// CatalogService owns persistence and lookup of product records
type CatalogService struct {
	extractor   Extractor
	repo        domain.ProductRepository
	decoder     *schema.Validator
	parallelism int
	logger      zerolog.Logger
}

// NewCatalogService creates a new catalog service with dependencies
func NewCatalogService(
	extractor Extractor,
	repo domain.ProductRepository,
	decoder *schema.Validator,
	config CatalogServiceConfig,
	logger zerolog.Logger,
) *CatalogService {
	parallelism := config.SearchParallelism
	if parallelism < 1 {
		parallelism = 1
	}

	return &CatalogService{
		extractor:   extractor,
		repo:        repo,
		decoder:     decoder,
		parallelism: parallelism,
		logger:      logger.With().Str("service", "catalog").Logger(),
	}
}

// Ingest extracts a record from the images and stores it.
// If the insert fails the returned error is a *domain.PersistError that
// still carries the extracted record.
func (s *CatalogService) Ingest(ctx context.Context, imageURLs []string) (*domain.StoredProduct, error) {
	record, err := s.extractor.Extract(ctx, imageURLs)
	if err != nil {
		return nil, err
	}

	return s.insert(ctx, record)
}

// Save validates a previously extracted record and stores it
func (s *CatalogService) Save(ctx context.Context, payload []byte) (*domain.StoredProduct, error) {
	record, err := s.decoder.Decode(payload)
	if err != nil {
		return nil, err
	}

	return s.insert(ctx, record)
}

func (s *CatalogService) insert(ctx context.Context, record *domain.ProductRecord) (*domain.StoredProduct, error) {
	id, err := s.repo.Insert(ctx, record)
	if err != nil {
		s.logger.Error().Err(err).
			Interface("record", record).
			Msg("failed to persist extracted product")
		return nil, &domain.PersistError{
			Record: record,
			Err:    fmt.Errorf("%w: %w", domain.ErrStoreFailure, err),
		}
	}

	s.logger.Info().
		Str("id", id).
		Str("product", record.ProductName).
		Msg("product stored")

	return &domain.StoredProduct{ID: id, ProductRecord: *record}, nil
}

// Search resolves a free-text query into "name by brand" labels.
// Terms from GenerateSearchTerms are queried in order and labels are kept in
// first-seen order without duplicates. The first store error fails the whole
// search; no partial result is returned.
func (s *CatalogService) Search(ctx context.Context, query string) (*domain.SearchResult, error) {
	terms := GenerateSearchTerms(query)
	if len(terms) == 0 {
		return &domain.SearchResult{Products: []string{}, Status: domain.StatusNoQuery}, nil
	}

	matches, err := s.queryTerms(ctx, terms)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("product search failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
	}

	labels := make([]string, 0)
	seen := make(map[string]struct{})
	for _, products := range matches {
		for _, product := range products {
			label := product.Label()
			if _, ok := seen[label]; ok {
				continue
			}
			seen[label] = struct{}{}
			labels = append(labels, label)
		}
	}

	status := domain.StatusNotFound
	if len(labels) > 0 {
		status = domain.StatusFound
	}

	s.logger.Debug().
		Str("query", query).
		Strs("terms", terms).
		Int("results", len(labels)).
		Msg("product search")

	return &domain.SearchResult{Products: labels, Status: status}, nil
}

// queryTerms returns the matches of every term, indexed like terms
func (s *CatalogService) queryTerms(ctx context.Context, terms []string) ([][]domain.StoredProduct, error) {
	results := make([][]domain.StoredProduct, len(terms))

	if s.parallelism == 1 {
		for i, term := range terms {
			products, err := s.repo.FindByNameContains(ctx, term)
			if err != nil {
				return nil, fmt.Errorf("term %q: %w", term, err)
			}
			results[i] = products
		}
		return results, nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.parallelism)
	for i, term := range terms {
		group.Go(func() error {
			products, err := s.repo.FindByNameContains(groupCtx, term)
			if err != nil {
				return fmt.Errorf("term %q: %w", term, err)
			}
			results[i] = products
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// GetByName fetches the product whose name equals name exactly
func (s *CatalogService) GetByName(ctx context.Context, name string) (*domain.StoredProduct, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: product name is required", domain.ErrInvalidRequest)
	}

	product, err := s.repo.FindOneByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("product", name).Msg("product lookup failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
	}

	return product, nil
}
