// Package config loads the wizard settings: built-in defaults, then an optional
// YAML file, then a .env file, then ACCIDENT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mrsinham/accidentwizard/internal/attachment"
	"github.com/mrsinham/accidentwizard/internal/logging"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ACCIDENT_"

// Config holds every setting of the wizard, the CLI and the mock backend.
type Config struct {
	// BackendURL selects the HTTP document service. Empty means in-memory.
	BackendURL  string `yaml:"backend_url"`
	DownloadDir string `yaml:"download_dir"`

	Gating                  bool `yaml:"gating"`
	ValidateOnSubmit        bool `yaml:"validate_on_submit"`
	RequireMedicalDocuments bool `yaml:"require_medical_documents"`

	PreviewTimeout    time.Duration `yaml:"preview_timeout"`
	MaxAttachmentSize string        `yaml:"max_attachment_size"`
	ViewerCommand     string        `yaml:"viewer_command"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogFile   string `yaml:"log_file,omitempty"`

	ListenAddr string `yaml:"listen_addr"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DownloadDir:             ".",
		Gating:                  true,
		ValidateOnSubmit:        true,
		RequireMedicalDocuments: true,
		PreviewTimeout:          attachment.DefaultPreviewTimeout,
		MaxAttachmentSize:       "10MB",
		LogLevel:                "info",
		LogFormat:               "text",
		ListenAddr:              ":8000",
	}
}

// Load builds the configuration. path and envFile may be empty; a missing
// envFile is not an error, a missing config file is.
func Load(path, envFile string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if envFile != "" {
		// godotenv never overrides variables already set in the process.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"BACKEND_URL":         &c.BackendURL,
		"DOWNLOAD_DIR":        &c.DownloadDir,
		"MAX_ATTACHMENT_SIZE": &c.MaxAttachmentSize,
		"VIEWER_COMMAND":      &c.ViewerCommand,
		"LOG_LEVEL":           &c.LogLevel,
		"LOG_FORMAT":          &c.LogFormat,
		"LOG_FILE":            &c.LogFile,
		"LISTEN_ADDR":         &c.ListenAddr,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	bools := map[string]*bool{
		"GATING":                    &c.Gating,
		"VALIDATE_ON_SUBMIT":        &c.ValidateOnSubmit,
		"REQUIRE_MEDICAL_DOCUMENTS": &c.RequireMedicalDocuments,
	}
	for key, dst := range bools {
		v, ok := lookup(EnvPrefix + key)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = b
	}

	if v, ok := lookup(EnvPrefix + "PREVIEW_TIMEOUT"); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sPREVIEW_TIMEOUT: %w", EnvPrefix, err)
		}
		c.PreviewTimeout = d
	}
	return nil
}

// Validate checks every setting that has a syntax.
func (c Config) Validate() error {
	var errs []error
	if c.BackendURL != "" {
		u, err := url.Parse(c.BackendURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("backend_url %q must be an http(s) URL", c.BackendURL))
		}
	}
	if c.DownloadDir == "" {
		errs = append(errs, errors.New("download_dir must not be empty"))
	}
	if c.PreviewTimeout <= 0 {
		errs = append(errs, fmt.Errorf("preview_timeout must be positive, got %s", c.PreviewTimeout))
	}
	if _, err := c.MaxAttachmentBytes(); err != nil {
		errs = append(errs, fmt.Errorf("max_attachment_size: %w", err))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// MaxAttachmentBytes parses MaxAttachmentSize. Empty means no limit.
func (c Config) MaxAttachmentBytes() (int64, error) {
	return attachment.ParseSize(c.MaxAttachmentSize)
}

// Marshal renders the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
