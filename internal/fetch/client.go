package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/osrs-tools/flip-scanner/internal/config"
	"github.com/osrs-tools/flip-scanner/internal/models"
	"github.com/osrs-tools/flip-scanner/pkg/logger"
)

// Client talks to the real-time prices API. All responses are plain
// JSON over GET; the API asks for a descriptive User-Agent so it can
// contact heavy users, so we always send one.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient creates a prices API client from configuration.
func NewClient(cfg config.APIConfig) *Client {
	ua := cfg.UserAgent
	if cfg.Contact != "" {
		ua = fmt.Sprintf("%s (%s)", cfg.UserAgent, cfg.Contact)
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: ua,
		http:      &http.Client{Timeout: cfg.Timeout},
	}
}

// quoteEnvelope and friends mirror the API's {"data": ...} wrapping.
// Table keys arrive as JSON strings and are re-keyed to ints here.
type quoteEnvelope struct {
	Data map[string]models.Quote `json:"data"`
}

type aggregateEnvelope struct {
	Data map[string]models.WindowAggregate `json:"data"`
}

type seriesEnvelope struct {
	Data []models.TimeSeriesPoint `json:"data"`
}

func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", endpoint, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		logger.FetchErrors.WithLabelValues(endpoint).Inc()
		return fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.FetchErrors.WithLabelValues(endpoint).Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fetch %s: unexpected status %d: %s", endpoint, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		logger.FetchErrors.WithLabelValues(endpoint).Inc()
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// Mapping fetches the item catalog. Malformed entries are dropped
// rather than failing the whole catalog.
func (c *Client) Mapping(ctx context.Context) (*models.Catalog, error) {
	var items []models.Item
	if err := c.getJSON(ctx, "/mapping", nil, &items); err != nil {
		return nil, err
	}
	valid := items[:0]
	for i := range items {
		if err := items[i].Validate(); err != nil {
			continue
		}
		valid = append(valid, items[i])
	}
	return models.NewCatalog(valid), nil
}

// Latest fetches the current instant buy/sell quotes for all items.
func (c *Client) Latest(ctx context.Context) (models.QuoteTable, error) {
	var env quoteEnvelope
	if err := c.getJSON(ctx, "/latest", nil, &env); err != nil {
		return nil, err
	}
	table := make(models.QuoteTable, len(env.Data))
	for key, q := range env.Data {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("latest: non-numeric item id %q", key)
		}
		table[id] = q
	}
	return table, nil
}

// Averages fetches the rolling 5m or 1h aggregate table. Only "5m" and
// "1h" are valid aggregate endpoints.
func (c *Client) Averages(ctx context.Context, window string) (models.AggregateTable, error) {
	if window != "5m" && window != "1h" {
		return nil, fmt.Errorf("averages: unsupported window %q", window)
	}
	var env aggregateEnvelope
	if err := c.getJSON(ctx, "/"+window, nil, &env); err != nil {
		return nil, err
	}
	table := make(models.AggregateTable, len(env.Data))
	for key, agg := range env.Data {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("averages %s: non-numeric item id %q", window, key)
		}
		table[id] = agg
	}
	return table, nil
}

// Series fetches the 365-point timeseries for one item at the given
// cadence. It satisfies the engine's series provider interface.
func (c *Client) Series(ctx context.Context, itemID int, step models.Timestep) ([]models.TimeSeriesPoint, error) {
	if !step.Valid() {
		return nil, fmt.Errorf("series for item %d: %w: %q", itemID, models.ErrInvalidTimestep, step)
	}
	query := url.Values{}
	query.Set("timestep", string(step))
	query.Set("id", strconv.Itoa(itemID))

	var env seriesEnvelope
	if err := c.getJSON(ctx, "/timeseries", query, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Snapshot fetches everything the scan pipeline needs in one pass:
// catalog, latest quotes and both aggregate tables. The snapshot is
// stamped with the fetch time so quote ages are computed consistently
// across the whole run.
func (c *Client) Snapshot(ctx context.Context) (*models.Dataset, error) {
	catalog, err := c.Mapping(ctx)
	if err != nil {
		return nil, err
	}
	latest, err := c.Latest(ctx)
	if err != nil {
		return nil, err
	}
	avg5m, err := c.Averages(ctx, "5m")
	if err != nil {
		return nil, err
	}
	avg1h, err := c.Averages(ctx, "1h")
	if err != nil {
		return nil, err
	}
	return &models.Dataset{
		Catalog: catalog,
		Latest:  latest,
		Avg5m:   avg5m,
		Avg1h:   avg1h,
		Now:     time.Now(),
	}, nil
}
