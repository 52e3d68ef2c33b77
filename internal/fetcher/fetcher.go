package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"gstattrade/internal/config"
	apperrors "gstattrade/internal/errors"
	"gstattrade/internal/files"
	"gstattrade/internal/infrastructure"
	"gstattrade/internal/validation"
)

// Fetch outcomes, also used as the outcome attribute of the fetch metric.
const (
	OutcomeDownloaded = "downloaded"
	OutcomeSkipped    = "skipped"
	OutcomeFailed     = "failed"
)

const maxBackoff = 30 * time.Second

// ErrUnexpectedStatus is returned for a non-200 response.
var ErrUnexpectedStatus = errors.New("unexpected status")

// FetchReport lists the file names handled by one fetch, by outcome.
type FetchReport struct {
	Downloaded []string
	Skipped    []string
	Failed     []string
}

// Fetcher downloads release workbooks into a download directory.
type Fetcher struct {
	cfg         config.FetchConfig
	downloadDir string
	archive     *files.Manager
	client      *http.Client
	limiter     *rate.Limiter
	logger      *slog.Logger
	metrics     *infrastructure.ETLMetrics
	validator   *validation.FileValidator
	now         func() time.Time
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithHTTPClient replaces the default instrumented client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithMetrics records fetch outcomes on m.
func WithMetrics(m *infrastructure.ETLMetrics) Option {
	return func(f *Fetcher) { f.metrics = m }
}

// WithClock sets the clock used to find the current year.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

// New creates a fetcher that writes into downloadDir and consults archive
// before each download.
func New(cfg config.FetchConfig, downloadDir string, archive *files.Manager, logger *slog.Logger, opts ...Option) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	f := &Fetcher{
		cfg:         cfg,
		downloadDir: downloadDir,
		archive:     archive,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), burst),
		logger:  infrastructure.WithComponent(logger, "fetcher"),
		now:     time.Now,
	}
	f.validator = validation.NewFileValidator(f.logger)
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// URLs returns the release URLs the next Fetch will try.
func (f *Fetcher) URLs() []string {
	return BuildURLs(f.cfg.URLTemplate, f.cfg.SeedURLs, f.cfg.StartYear, f.now().Year())
}

// Fetch tries every release URL in order. Failures of single URLs are
// recorded in the report and never stop the run; only a cancelled context
// or an unusable download directory is returned as an error.
func (f *Fetcher) Fetch(ctx context.Context) (*FetchReport, error) {
	if err := os.MkdirAll(f.downloadDir, 0755); err != nil {
		return nil, apperrors.NewStorageError("failed to create download directory", err).
			WithContext("dir", f.downloadDir)
	}

	report := &FetchReport{}
	urls := f.URLs()
	f.logger.InfoContext(ctx, "Fetch started", slog.Int("urls", len(urls)))

	for _, rawURL := range urls {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		name, err := FileName(rawURL)
		if err != nil {
			f.logger.WarnContext(ctx, "Invalid release URL", slog.String("url", rawURL), slog.String("error", err.Error()))
			report.Failed = append(report.Failed, rawURL)
			f.metrics.FileFetched(ctx, OutcomeFailed)
			continue
		}

		if f.archive != nil && f.archive.IsArchived(name) {
			f.logger.InfoContext(ctx, "File already archived, skipping download", slog.String("file", name))
			report.Skipped = append(report.Skipped, name)
			f.metrics.FileFetched(ctx, OutcomeSkipped)
			continue
		}

		if err := f.download(ctx, rawURL, filepath.Join(f.downloadDir, name)); err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			f.logger.WarnContext(ctx, "Download failed",
				slog.String("file", name),
				slog.String("url", rawURL),
				slog.String("error", err.Error()))
			report.Failed = append(report.Failed, name)
			f.metrics.FileFetched(ctx, OutcomeFailed)
			continue
		}

		f.logger.InfoContext(ctx, "File downloaded",
			slog.String("file", name),
			slog.String("path", filepath.Join(f.downloadDir, name)))
		report.Downloaded = append(report.Downloaded, name)
		f.metrics.FileFetched(ctx, OutcomeDownloaded)
	}

	f.logger.InfoContext(ctx, "Fetch completed",
		slog.Int("downloaded", len(report.Downloaded)),
		slog.Int("skipped", len(report.Skipped)),
		slog.Int("failed", len(report.Failed)))

	return report, nil
}

// download fetches rawURL into dest with retry and exponential backoff.
func (f *Fetcher) download(ctx context.Context, rawURL, dest string) error {
	var lastErr error
	backoff := f.cfg.Backoff

	for attempt := 0; attempt <= f.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			f.logger.DebugContext(ctx, "Retrying download",
				slog.String("url", rawURL),
				slog.Int("attempt", attempt),
				slog.Duration("backoff", backoff))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}

		retryable, err := f.attempt(ctx, rawURL, dest)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return apperrors.NewNetworkError("download failed", lastErr).WithContext("url", rawURL)
}

// attempt performs one GET and reports whether a failure may be retried.
func (f *Fetcher) attempt(ctx context.Context, rawURL, dest string) (bool, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return ctx.Err() == nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return isRetryableStatus(resp.StatusCode), fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return false, f.writeAtomic(dest, resp.Body)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// writeAtomic streams r into a temporary file next to dest and renames it
// into place once the content is known to be a workbook.
func (f *Fetcher) writeAtomic(dest string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(dest), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := f.validator.ValidateContent(tmp.Name()); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}
