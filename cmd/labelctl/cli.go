package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/consumewise/backend/internal/domain"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// Catalog is the subset of the catalog service the CLI drives
type Catalog interface {
	Ingest(ctx context.Context, imageURLs []string) (*domain.StoredProduct, error)
	Save(ctx context.Context, payload []byte) (*domain.StoredProduct, error)
	Search(ctx context.Context, query string) (*domain.SearchResult, error)
	GetByName(ctx context.Context, name string) (*domain.StoredProduct, error)
}

// CLI runs one command against a catalog
type CLI struct {
	catalog Catalog
	out     io.Writer
	policy  func() backoff.BackOff
	spinner bool
}

// Execute dispatches command with its arguments
func (c *CLI) Execute(ctx context.Context, command string, args []string) error {
	switch command {
	case "extract":
		if len(args) == 0 {
			return fmt.Errorf("extract needs at least one image URL")
		}
		return c.extract(ctx, args)
	case "search":
		return c.search(ctx, strings.Join(args, " "))
	case "get":
		if len(args) == 0 {
			return fmt.Errorf("get needs a product name")
		}
		return c.get(ctx, strings.Join(args, " "))
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func (c *CLI) extract(ctx context.Context, imageURLs []string) error {
	stopSpinner := func() {}
	if c.spinner {
		stopSpinner = startSpinner(fmt.Sprintf("Reading %d label image(s)...", len(imageURLs)))
	}

	product, err := c.ingest(ctx, imageURLs)
	stopSpinner()
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintf(c.out, "Stored %s (id %s)\n", product.Label(), product.ID)
	return c.printJSON(product)
}

// ingest extracts and stores with retries. Extraction failures retry the
// whole ingest; once a record was extracted, only the insert is retried.
func (c *CLI) ingest(ctx context.Context, imageURLs []string) (*domain.StoredProduct, error) {
	var extracted *domain.ProductRecord

	product, err := backoff.RetryWithData(func() (*domain.StoredProduct, error) {
		product, err := c.catalog.Ingest(ctx, imageURLs)
		if err == nil {
			return product, nil
		}

		var persistErr *domain.PersistError
		if errors.As(err, &persistErr) {
			extracted = persistErr.Record
			return nil, backoff.Permanent(err)
		}
		if errors.Is(err, domain.ErrExtractionFailed) {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}, backoff.WithContext(c.policy(), ctx))
	if err == nil {
		return product, nil
	}
	if extracted == nil {
		return nil, err
	}

	color.New(color.FgYellow).Fprintf(c.out, "Extracted %s but storing failed, retrying the insert\n", extracted.Label())

	payload, err := json.Marshal(extracted)
	if err != nil {
		return nil, fmt.Errorf("failed to encode extracted record: %w", err)
	}

	product, err = backoff.RetryWithData(func() (*domain.StoredProduct, error) {
		product, err := c.catalog.Save(ctx, payload)
		if err != nil && !errors.Is(err, domain.ErrStoreFailure) {
			return nil, backoff.Permanent(err)
		}
		return product, err
	}, backoff.WithContext(c.policy(), ctx))
	if err != nil {
		// Keep the record so it can be stored later with POST /api/products
		_ = c.printJSON(extracted)
		return nil, err
	}

	return product, nil
}

func (c *CLI) search(ctx context.Context, query string) error {
	result, err := c.catalog.Search(ctx, query)
	if err != nil {
		return err
	}

	if result.Status == domain.StatusNoQuery {
		return errors.New(result.Message())
	}

	headline := color.New(color.FgYellow)
	if result.Status == domain.StatusFound {
		headline = color.New(color.FgGreen)
	}
	headline.Fprintln(c.out, result.Message())

	for _, label := range result.Products {
		fmt.Fprintf(c.out, "  %s\n", label)
	}

	return nil
}

func (c *CLI) get(ctx context.Context, name string) error {
	product, err := c.catalog.GetByName(ctx, name)
	if err != nil {
		return err
	}

	return c.printJSON(product)
}

func (c *CLI) printJSON(v any) error {
	encoder := json.NewEncoder(c.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// exponentialPolicy retries up to retries times with exponential delays
func exponentialPolicy(retries uint64) func() backoff.BackOff {
	return func() backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), retries)
	}
}

// startSpinner animates a spinner until the returned function is called
func startSpinner(description string) func() {
	bar := getSpinner(description)
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	return func() {
		close(done)
		<-finished
		_ = bar.Finish()
		fmt.Println()
	}
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}
