// Package importer pushes reconstructed records to the parts API, one create
// call per record, pausing between batches and retrying transient failures
// with capped exponential backoff.
package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/model"
	"github.com/FACorreiaa/parts-catalog-recon/pkg/metrics"
)

// ErrBackendUnavailable is returned when the existence check fails.
var ErrBackendUnavailable = errors.New("parts API unavailable")

// maxLoggedErrors caps per-record warnings; the rest go to debug.
const maxLoggedErrors = 10

// Config controls the import loop.
type Config struct {
	BaseURL        string
	BatchSize      int
	BatchPause     time.Duration
	MaxAttempts    uint
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	RequestTimeout time.Duration
	RateLimit      float64 // requests per second, 0 for no limit
	Currency       string
}

// DefaultConfig returns the settings used against a local API.
func DefaultConfig() Config {
	return Config{
		BaseURL:        "http://localhost:3001/api",
		BatchSize:      100,
		BatchPause:     500 * time.Millisecond,
		MaxAttempts:    3,
		InitialBackoff: 200 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		RequestTimeout: 15 * time.Second,
		Currency:       "PKR",
	}
}

// RecordError describes one record the API did not accept.
type RecordError struct {
	Index      int    `json:"index"`
	Identifier string `json:"identifier"`
	StatusCode int    `json:"status_code,omitempty"`
	Message    string `json:"message"`
}

func (e RecordError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("record %d (%s): status %d: %s", e.Index, e.Identifier, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("record %d (%s): %s", e.Index, e.Identifier, e.Message)
}

// Result tallies an import run.
type Result struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"` // not attempted because the run was cancelled
	Retries   int           `json:"retries"`
	Errors    []RecordError `json:"errors,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// statusError is a non-2xx response.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.code, e.body)
}

// Client talks to the parts API.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	metrics *metrics.Collector
}

// NewClient creates a client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Currency == "" {
		cfg.Currency = DefaultConfig().Currency
	}

	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.RequestTimeout},
		logger: logger,
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return c
}

// WithHTTPClient replaces the HTTP client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// WithMetrics attaches a metrics collector.
func (c *Client) WithMetrics(m *metrics.Collector) *Client {
	c.metrics = m
	return c
}

// CheckAvailable lists at most one part and fails unless the API answers 2xx.
func (c *Client) CheckAvailable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/parts?limit=1", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrBackendUnavailable, resp.StatusCode)
	}
	return nil
}

// Import creates every record in order. Rejected records are logged and
// counted without stopping the loop. If the existence check fails nothing is
// sent and every record counts as failed. Cancelling ctx stops the loop; the
// records not attempted are reported as skipped.
func (c *Client) Import(ctx context.Context, records []model.Record) (*Result, error) {
	start := time.Now()
	result := &Result{Total: len(records)}

	if err := c.CheckAvailable(ctx); err != nil {
		result.Failed = len(records)
		result.Duration = time.Since(start)
		c.logger.Error("parts API existence check failed", slog.String("base_url", c.cfg.BaseURL), slog.Any("error", err))
		return result, err
	}

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return c.stop(result, len(records)-i, start, err)
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return c.stop(result, len(records)-i, start, err)
			}
		}

		retries, err := c.create(ctx, BuildPayload(rec, c.cfg.Currency))
		result.Retries += retries
		switch {
		case err == nil:
			result.Succeeded++
			c.metrics.ImportOutcome(metrics.OutcomeCreated)
		case ctx.Err() != nil:
			return c.stop(result, len(records)-i, start, ctx.Err())
		default:
			c.fail(result, i, rec, err)
		}

		if done := i + 1; done%c.cfg.BatchSize == 0 && done < len(records) {
			c.logger.Info("import progress",
				slog.Int("processed", done),
				slog.Int("total", len(records)),
				slog.Int("succeeded", result.Succeeded),
				slog.Int("failed", result.Failed),
			)
			if err := sleep(ctx, c.cfg.BatchPause); err != nil {
				return c.stop(result, len(records)-done, start, err)
			}
		}
	}

	result.Duration = time.Since(start)
	c.logger.Info("import finished",
		slog.Int("total", result.Total),
		slog.Int("succeeded", result.Succeeded),
		slog.Int("failed", result.Failed),
		slog.Int("retries", result.Retries),
		slog.Duration("duration", result.Duration),
	)
	return result, nil
}

func (c *Client) fail(result *Result, index int, rec model.Record, err error) {
	re := RecordError{Index: index, Identifier: rec.MasterPartNo, Message: err.Error()}
	outcome := metrics.OutcomeFailed
	var se *statusError
	if errors.As(err, &se) {
		re.StatusCode = se.code
		re.Message = se.body
		outcome = metrics.OutcomeRejected
	}

	result.Failed++
	result.Errors = append(result.Errors, re)
	c.metrics.ImportOutcome(outcome)

	level := slog.LevelWarn
	if len(result.Errors) > maxLoggedErrors {
		level = slog.LevelDebug
	}
	c.logger.Log(context.Background(), level, "record import failed",
		slog.String("identifier", re.Identifier),
		slog.Int("status", re.StatusCode),
		slog.String("error", re.Message),
	)
}

func (c *Client) stop(result *Result, remaining int, start time.Time, err error) (*Result, error) {
	result.Skipped = remaining
	result.Duration = time.Since(start)
	for i := 0; i < remaining; i++ {
		c.metrics.ImportOutcome(metrics.OutcomeSkipped)
	}
	c.logger.Warn("import interrupted",
		slog.Int("succeeded", result.Succeeded),
		slog.Int("failed", result.Failed),
		slog.Int("skipped", result.Skipped),
	)
	return result, fmt.Errorf("import interrupted: %w", err)
}

// create posts one payload, retrying transport errors, 429 and 5xx.
func (c *Client) create(ctx context.Context, p Payload) (int, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return 0, fmt.Errorf("failed to encode payload: %w", err)
	}

	attempts := 0
	err = retry.Do(
		func() error {
			if attempts++; attempts > 1 {
				c.metrics.ImportRetry()
			}
			return c.post(ctx, body)
		},
		retry.Context(ctx),
		retry.Attempts(c.cfg.MaxAttempts),
		retry.Delay(c.cfg.InitialBackoff),
		retry.MaxDelay(c.cfg.MaxBackoff),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("create call failed",
				slog.String("identifier", p.MasterPartNo),
				slog.Uint64("attempt", uint64(n+1)),
				slog.Any("error", err),
			)
		}),
	)
	retries := 0
	if attempts > 1 {
		retries = attempts - 1
	}
	return retries, err
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/parts", bytes.NewReader(body))
	if err != nil {
		return retry.Unrecoverable(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &statusError{code: resp.StatusCode, body: string(bytes.TrimSpace(msg))}
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	return true
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
