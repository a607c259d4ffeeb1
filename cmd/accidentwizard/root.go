package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrsinham/accidentwizard/internal/attachment"
	"github.com/mrsinham/accidentwizard/internal/config"
	"github.com/mrsinham/accidentwizard/internal/docservice"
	"github.com/mrsinham/accidentwizard/internal/engine"
	"github.com/mrsinham/accidentwizard/internal/logging"
)

// annotationTUI marks commands that own the terminal; they only log to log_file.
const annotationTUI = "tui"

// app carries the settings shared by every subcommand.
type app struct {
	configPath string
	envFile    string
	logLevel   string

	cfg     config.Config
	log     *slog.Logger
	logFile *os.File
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "accidentwizard",
		Short: "Guided occupational accident report",
		Long: "accidentwizard collects the details of an occupational accident step by step,\n" +
			"validates them and prepares the notification document.",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	f := cmd.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "YAML configuration file")
	f.StringVar(&a.envFile, "env-file", ".env", "file with ACCIDENT_* variables, ignored when missing")
	f.StringVar(&a.logLevel, "log-level", "", "override log_level: debug, info, warn, error")

	cmd.AddCommand(
		newWizardCmd(a),
		newSubmitCmd(a),
		newValidateCmd(a),
		newServeCmd(a),
		newSampleCmd(a),
		newDocumentsCmd(a),
		newConfigCmd(a),
	)
	cmd.Version = version
	return cmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath, a.envFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	var w io.Writer = cmd.ErrOrStderr()
	switch {
	case cfg.LogFile != "":
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return err
		}
		a.logFile, w = f, f
	case cmd.Annotations[annotationTUI] != "":
		w = io.Discard
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	format, _ := logging.ParseFormat(cfg.LogFormat)
	a.log = logging.Init(level, format, w)
	return nil
}

func (a *app) teardown(*cobra.Command, []string) error {
	if a.logFile == nil {
		return nil
	}
	err := a.logFile.Close()
	a.logFile = nil
	return err
}

// documentService returns the HTTP client when backend_url is set and the
// in-memory service otherwise.
func (a *app) documentService() (engine.DocumentService, error) {
	opts := []docservice.Option{
		docservice.WithDownloadDir(a.cfg.DownloadDir),
		docservice.WithLogger(a.log.With("component", "docservice")),
	}
	if a.cfg.BackendURL != "" {
		c, err := docservice.NewClient(a.cfg.BackendURL, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	mem, err := docservice.NewMemory(opts...)
	if err != nil {
		return nil, err
	}
	return mem, nil
}

func (a *app) newEngine() (*engine.Engine, error) {
	svc, err := a.documentService()
	if err != nil {
		return nil, err
	}
	maxSize, err := a.cfg.MaxAttachmentBytes()
	if err != nil {
		return nil, err
	}

	opts := []engine.Option{
		engine.WithGating(a.cfg.Gating),
		engine.WithValidateOnSubmit(a.cfg.ValidateOnSubmit),
		engine.WithRequireMedicalDocuments(a.cfg.RequireMedicalDocuments),
		engine.WithMaxAttachmentSize(maxSize),
		engine.WithLogger(a.log.With("component", "engine")),
	}
	if a.cfg.ViewerCommand != "" {
		viewer, err := attachment.ParseViewerCommand(a.cfg.ViewerCommand)
		if err != nil {
			return nil, fmt.Errorf("viewer_command: %w", err)
		}
		opts = append(opts, engine.WithPreviewer(attachment.NewPreviewer(viewer,
			attachment.WithTimeout(a.cfg.PreviewTimeout),
			attachment.WithLogger(a.log.With("component", "preview")),
		)))
	}
	return engine.New(svc, opts...), nil
}
