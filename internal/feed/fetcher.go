// Package feed fetches festival drink catalogs and the festival registry
// from remote JSON endpoints and parses them into typed records.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/casklist/casklist/pkg/models"
)

// DefaultTimeout bounds a single feed request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Client fetches per-category drink feeds for a festival.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a feed client. timeout <= 0 falls back to
// DefaultTimeout; rps <= 0 disables outbound rate limiting.
func NewClient(timeout time.Duration, rps float64, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	limit := rate.Inf
	burst := 1
	if rps > 0 {
		limit = rate.Limit(rps)
		if rps > 1 {
			burst = int(rps)
		}
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// FetchCategory fetches one beverage category for a festival and flattens
// the producer tree into Drink records tagged with the festival ID.
// A 404 means the festival doesn't offer the category and yields an empty
// list with no error; any other non-2xx status yields a *StatusError.
func (c *Client) FetchCategory(ctx context.Context, fest models.Festival, category string) ([]models.Drink, error) {
	url := fest.CategoryURL(category)

	body, status, err := c.get(ctx, url)
	if err != nil {
		fetchTotal.WithLabelValues(category, "error").Inc()
		return nil, err
	}

	if status == http.StatusNotFound {
		fetchTotal.WithLabelValues(category, "missing").Inc()
		return []models.Drink{}, nil
	}
	if status < 200 || status > 299 {
		fetchTotal.WithLabelValues(category, "error").Inc()
		return nil, &StatusError{StatusCode: status, URL: url}
	}

	// The body is decoded from raw bytes as UTF-8. Static feed hosts
	// frequently declare the wrong charset, which would mangle accented
	// producer and drink names if honored.
	var doc feedDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		fetchTotal.WithLabelValues(category, "error").Inc()
		return nil, fmt.Errorf("parse %s feed: %w", category, err)
	}

	drinks := doc.drinks(fest.ID)
	fetchTotal.WithLabelValues(category, "ok").Inc()
	c.logger.Debug("fetched category feed",
		zap.String("festival", fest.ID),
		zap.String("category", category),
		zap.Int("drinks", len(drinks)),
	)
	return drinks, nil
}

// FetchAll fetches every configured category concurrently and merges the
// successes in category order. Failed categories are dropped silently
// unless every category failed, in which case the aggregate error wraps
// ErrAllCategoriesFailed and the first underlying failure.
func (c *Client) FetchAll(ctx context.Context, fest models.Festival, categories []string) ([]models.Drink, error) {
	if len(categories) == 0 {
		return []models.Drink{}, nil
	}

	type result struct {
		idx    int
		drinks []models.Drink
		err    error
	}
	ch := make(chan result, len(categories))

	for i, cat := range categories {
		go func(idx int, cat string) {
			drinks, err := c.FetchCategory(ctx, fest, cat)
			ch <- result{idx: idx, drinks: drinks, err: err}
		}(i, cat)
	}

	byCategory := make([][]models.Drink, len(categories))
	var firstErr error
	failures := 0
	for range categories {
		r := <-ch
		if r.err != nil {
			failures++
			if firstErr == nil {
				firstErr = r.err
			}
			c.logger.Warn("category fetch failed",
				zap.String("festival", fest.ID),
				zap.String("category", categories[r.idx]),
				zap.Error(r.err),
			)
			continue
		}
		byCategory[r.idx] = r.drinks
	}

	if failures == len(categories) {
		return nil, fmt.Errorf("%w: %w", ErrAllCategoriesFailed, firstErr)
	}

	merged := []models.Drink{}
	for _, drinks := range byCategory {
		merged = append(merged, drinks...)
	}
	return merged, nil
}

// get issues a rate-limited GET and returns the raw body and status code.
func (c *Client) get(ctx context.Context, url string) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request %s: %w", url, err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	fetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, 0, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read body %s: %w", url, err)
	}
	return body, resp.StatusCode, nil
}

// Wire types for the category feed document. Fields with inconsistent
// upstream typing stay raw until coerced.

type feedDocument struct {
	Producers []feedProducer `json:"producers"`
}

type feedProducer struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Location    string        `json:"location"`
	YearFounded int           `json:"year_founded"`
	Notes       string        `json:"notes"`
	Products    []feedProduct `json:"products"`
}

type feedProduct struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Style      string          `json:"style"`
	Dispense   string          `json:"dispense"`
	ABV        json.RawMessage `json:"abv"`
	Notes      string          `json:"notes"`
	StatusText string          `json:"status_text"`
	Bar        json.RawMessage `json:"bar"`
	Allergens  json.RawMessage `json:"allergens"`
}

// drinks flattens the producer tree into Drink records. A missing or null
// producers array yields an empty list.
func (d feedDocument) drinks(festivalID string) []models.Drink {
	out := []models.Drink{}
	for _, p := range d.Producers {
		brewery := models.Brewery{ID: p.ID, Name: p.Name, Location: p.Location}
		for _, fp := range p.Products {
			out = append(out, models.Drink{
				Product:    fp.product(),
				Brewery:    brewery,
				FestivalID: festivalID,
			})
		}
	}
	return out
}

func (fp feedProduct) product() models.Product {
	category := models.Category(fp.Category)
	if category == "" {
		category = models.CategoryBeer
	}
	dispense := fp.Dispense
	if dispense == "" {
		dispense = models.DefaultDispense
	}
	return models.Product{
		ID:         fp.ID,
		Name:       fp.Name,
		Category:   category,
		Style:      fp.Style,
		Dispense:   dispense,
		ABV:        coerceABV(fp.ABV),
		Notes:      fp.Notes,
		StatusText: fp.StatusText,
		Bar:        coerceLabel(fp.Bar),
		Allergens:  coerceAllergens(fp.Allergens),
	}
}
