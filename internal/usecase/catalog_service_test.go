package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/consumewise/backend/internal/domain"
	"github.com/consumewise/backend/internal/schema"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(name, brand string) domain.ProductRecord {
	return domain.ProductRecord{
		ProductName:            name,
		BrandName:              brand,
		Ingredients:            []domain.Ingredient{},
		NutritionalInformation: []domain.NutrientRow{},
		FssaiLicenseNumbers:    []float64{},
		Claims:                 []string{},
	}
}

func newTestCatalogService(t *testing.T, extractor Extractor, repo domain.ProductRepository, parallelism int) *CatalogService {
	t.Helper()
	decoder, err := schema.NewValidator()
	require.NoError(t, err)

	return NewCatalogService(extractor, repo, decoder, CatalogServiceConfig{SearchParallelism: parallelism}, zerolog.Nop())
}

func TestNewCatalogService(t *testing.T) {
	t.Run("defaults to sequential term queries", func(t *testing.T) {
		svc := newTestCatalogService(t, nil, NewMockProductRepository(), 0)
		assert.Equal(t, 1, svc.parallelism)
	})

	t.Run("keeps configured parallelism", func(t *testing.T) {
		svc := newTestCatalogService(t, nil, NewMockProductRepository(), 4)
		assert.Equal(t, 4, svc.parallelism)
	})
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	for _, parallelism := range []int{1, 4} {
		t.Run("earlier terms rank first", func(t *testing.T) {
			repo := NewMockProductRepository(
				product("Dark Chocolate 70%", "Acme"),
				product("Milk Bar", "Zed"),
			)
			svc := newTestCatalogService(t, nil, repo, parallelism)

			result, err := svc.Search(ctx, "dark chocolate bar")
			require.NoError(t, err)

			assert.Equal(t, []string{"Dark Chocolate 70% by Acme", "Milk Bar by Zed"}, result.Products)
			assert.Equal(t, domain.StatusFound, result.Status)
			assert.Equal(t, "Products found", result.Message())
			assert.ElementsMatch(t,
				[]string{"dark chocolate", "dark chocolate bar", "dark", "chocolate", "bar"},
				repo.queriedTerms())
		})

		t.Run("duplicates appear once at first position", func(t *testing.T) {
			repo := NewMockProductRepository(
				product("Oat Milk", "Oatly"),
				product("Milk Chocolate", "Acme"),
				product("Oat Cookies", "Bake"),
			)
			svc := newTestCatalogService(t, nil, repo, parallelism)

			result, err := svc.Search(ctx, "oat milk")
			require.NoError(t, err)

			// "oat milk" -> Oat Milk; "oat" -> Oat Milk, Oat Cookies; "milk" -> Oat Milk, Milk Chocolate
			assert.Equal(t, []string{"Oat Milk by Oatly", "Oat Cookies by Bake", "Milk Chocolate by Acme"}, result.Products)
		})

		t.Run("same name from different brands stays distinct", func(t *testing.T) {
			repo := NewMockProductRepository(
				product("Cornflakes", "Kellogg"),
				product("Cornflakes", "Bagrry"),
				product("Cornflakes", "Kellogg"),
			)
			svc := newTestCatalogService(t, nil, repo, parallelism)

			result, err := svc.Search(ctx, "cornflakes")
			require.NoError(t, err)
			assert.Equal(t, []string{"Cornflakes by Kellogg", "Cornflakes by Bagrry"}, result.Products)
		})
	}

	t.Run("sequential mode queries terms in generation order", func(t *testing.T) {
		repo := NewMockProductRepository()
		svc := newTestCatalogService(t, nil, repo, 1)

		_, err := svc.Search(ctx, "dark chocolate bar")
		require.NoError(t, err)
		assert.Equal(t,
			[]string{"dark chocolate", "dark chocolate bar", "dark", "chocolate", "bar"},
			repo.queriedTerms())
	})

	t.Run("no matches is not an error", func(t *testing.T) {
		repo := NewMockProductRepository(product("Milk Bar", "Zed"))
		svc := newTestCatalogService(t, nil, repo, 1)

		result, err := svc.Search(ctx, "kombucha")
		require.NoError(t, err)
		assert.NotNil(t, result.Products)
		assert.Empty(t, result.Products)
		assert.Equal(t, domain.StatusNotFound, result.Status)
		assert.Equal(t, "No products found", result.Message())
	})

	t.Run("query without words has its own status", func(t *testing.T) {
		repo := NewMockProductRepository(product("Milk Bar", "Zed"))
		svc := newTestCatalogService(t, nil, repo, 1)

		result, err := svc.Search(ctx, "   ")
		require.NoError(t, err)
		assert.Empty(t, result.Products)
		assert.Equal(t, domain.StatusNoQuery, result.Status)
		assert.Empty(t, repo.queriedTerms())
	})

	t.Run("first store error aborts the search", func(t *testing.T) {
		cause := errors.New("connection refused")
		repo := NewMockProductRepository(product("Dark Chocolate 70%", "Acme"))
		repo.findErr = cause
		repo.failOnTerm = "dark"
		svc := newTestCatalogService(t, nil, repo, 1)

		result, err := svc.Search(ctx, "dark chocolate bar")
		assert.Nil(t, result)
		assert.ErrorIs(t, err, domain.ErrStoreFailure)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, []string{"dark chocolate", "dark chocolate bar", "dark"}, repo.queriedTerms())
	})

	t.Run("store error in parallel mode returns no partial result", func(t *testing.T) {
		repo := NewMockProductRepository(product("Milk Bar", "Zed"))
		repo.findErr = errors.New("timeout")
		repo.failOnTerm = "bar"
		svc := newTestCatalogService(t, nil, repo, 3)

		result, err := svc.Search(ctx, "milk bar")
		assert.Nil(t, result)
		assert.ErrorIs(t, err, domain.ErrStoreFailure)
	})
}

func TestGetByName(t *testing.T) {
	ctx := context.Background()

	t.Run("returns exact match", func(t *testing.T) {
		repo := NewMockProductRepository(product("Milk Bar", "Zed"))
		svc := newTestCatalogService(t, nil, repo, 1)

		found, err := svc.GetByName(ctx, "Milk Bar")
		require.NoError(t, err)
		assert.Equal(t, "Zed", found.BrandName)
		assert.NotEmpty(t, found.ID)
	})

	t.Run("miss is not found, not a store failure", func(t *testing.T) {
		repo := NewMockProductRepository(product("Milk Bar", "Zed"))
		svc := newTestCatalogService(t, nil, repo, 1)

		found, err := svc.GetByName(ctx, "milk bar")
		assert.Nil(t, found)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
		assert.False(t, errors.Is(err, domain.ErrStoreFailure))
	})

	t.Run("blank name is invalid", func(t *testing.T) {
		svc := newTestCatalogService(t, nil, NewMockProductRepository(), 1)

		_, err := svc.GetByName(ctx, "")
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("store error is a store failure", func(t *testing.T) {
		repo := NewMockProductRepository()
		repo.findErr = errors.New("socket closed")
		svc := newTestCatalogService(t, nil, repo, 1)

		_, err := svc.GetByName(ctx, "Milk Bar")
		assert.ErrorIs(t, err, domain.ErrStoreFailure)
	})
}

func TestIngest(t *testing.T) {
	ctx := context.Background()
	images := []string{"https://img/front.jpg"}

	t.Run("extracts and stores", func(t *testing.T) {
		record := product("Milk Bar", "Zed")
		extractor := &MockExtractor{record: &record}
		repo := NewMockProductRepository()
		svc := newTestCatalogService(t, extractor, repo, 1)

		stored, err := svc.Ingest(ctx, images)
		require.NoError(t, err)
		assert.Equal(t, "id-0", stored.ID)
		assert.Equal(t, "Milk Bar", stored.ProductName)
		assert.Len(t, repo.products, 1)
	})

	t.Run("extraction failure skips the insert", func(t *testing.T) {
		extractor := &MockExtractor{err: domain.ErrExtractionFailed}
		repo := NewMockProductRepository()
		svc := newTestCatalogService(t, extractor, repo, 1)

		_, err := svc.Ingest(ctx, images)
		assert.ErrorIs(t, err, domain.ErrExtractionFailed)
		assert.Empty(t, repo.products)
	})

	t.Run("insert failure keeps the extracted record", func(t *testing.T) {
		record := product("Milk Bar", "Zed")
		extractor := &MockExtractor{record: &record}
		repo := NewMockProductRepository()
		repo.insertErr = errors.New("write concern error")
		svc := newTestCatalogService(t, extractor, repo, 1)

		stored, err := svc.Ingest(ctx, images)
		assert.Nil(t, stored)
		assert.ErrorIs(t, err, domain.ErrStoreFailure)

		var persistErr *domain.PersistError
		require.True(t, errors.As(err, &persistErr))
		assert.Equal(t, "Milk Bar", persistErr.Record.ProductName)
		assert.Equal(t, 1, extractor.calls)
	})
}

func TestSave(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a valid record", func(t *testing.T) {
		repo := NewMockProductRepository()
		svc := newTestCatalogService(t, nil, repo, 1)

		stored, err := svc.Save(ctx, []byte(validLabelJSON))
		require.NoError(t, err)
		assert.Equal(t, "Dark Chocolate 70%", stored.ProductName)
		assert.Len(t, repo.products, 1)
	})

	t.Run("rejects a non-conforming record", func(t *testing.T) {
		repo := NewMockProductRepository()
		svc := newTestCatalogService(t, nil, repo, 1)

		_, err := svc.Save(ctx, []byte(`{"productName": "Milk Bar"}`))
		assert.ErrorIs(t, err, domain.ErrSchemaViolation)
		assert.Empty(t, repo.products)
	})
}
