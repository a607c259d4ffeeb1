package docservice

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Option configures a Client or a Memory service during construction. Options
// that do not apply to the service being built are ignored.
type Option func(*config) error

type config struct {
	httpClient  *http.Client
	logger      *slog.Logger
	timeout     time.Duration
	downloadDir string
	renderer    Renderer
	now         func() time.Time
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{
		downloadDir: ".",
		renderer:    TextRenderer{},
		now:         time.Now,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return cfg, nil
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *config) error {
		cfg.httpClient = c
		return nil
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) error {
		cfg.logger = l
		return nil
	}
}

// WithTimeout sets a timeout on the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cfg *config) error {
		if d < 0 {
			return fmt.Errorf("docservice: negative timeout %s", d)
		}
		cfg.timeout = d
		return nil
	}
}

// WithDownloadDir sets the directory downloaded files are written to.
func WithDownloadDir(dir string) Option {
	return func(cfg *config) error {
		if dir == "" {
			return fmt.Errorf("docservice: download directory is empty")
		}
		cfg.downloadDir = dir
		return nil
	}
}

// WithRenderer replaces the renderer used by the in-memory service.
func WithRenderer(r Renderer) Option {
	return func(cfg *config) error {
		cfg.renderer = r
		return nil
	}
}

// WithClock replaces time.Now for document timestamps.
func WithClock(now func() time.Time) Option {
	return func(cfg *config) error {
		cfg.now = now
		return nil
	}
}
