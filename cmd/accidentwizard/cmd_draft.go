package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrsinham/accidentwizard/cmd/accidentwizard/wizard"
	"github.com/mrsinham/accidentwizard/internal/attachment"
	"github.com/mrsinham/accidentwizard/internal/docservice"
	"github.com/mrsinham/accidentwizard/internal/engine"
	"github.com/mrsinham/accidentwizard/internal/report"
)

// errDraftInvalid is returned by validate and submit after the errors were printed.
var errDraftInvalid = errors.New("draft is invalid")

// loadEngine builds an engine holding the draft file and its attachments.
func (a *app) loadEngine(path string) (*engine.Engine, error) {
	df, err := wizard.LoadFromYAML(path)
	if err != nil {
		return nil, err
	}
	e, err := a.newEngine()
	if err != nil {
		return nil, err
	}
	if err := df.Apply(e); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <draft.yaml>",
		Short: "Check a draft file without submitting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.loadEngine(args[0])
			if err != nil {
				return err
			}
			defer e.Close()

			if !e.Validate() {
				printErrors(cmd.OutOrStdout(), e.Errors())
				return errDraftInvalid
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Zgłoszenie jest kompletne.")
			return nil
		},
	}
}

func newSubmitCmd(a *app) *cobra.Command {
	var (
		format  string
		attachs []string
	)
	cmd := &cobra.Command{
		Use:   "submit <draft.yaml>",
		Short: "Submit a draft file and download the document",
		Example: `  accidentwizard submit zgloszenie.yaml --attach medical=karta.pdf
  accidentwizard submit zgloszenie.yaml --format ""   # submit only`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			var dl report.Format
			if format != "" {
				f, err := report.ParseFormat(format)
				if err != nil {
					return err
				}
				dl = f
			}

			e, err := a.loadEngine(args[0])
			if err != nil {
				return err
			}
			defer e.Close()

			for _, pair := range attachs {
				if err := attach(e, pair); err != nil {
					return err
				}
			}
			return submit(ctx, cmd.OutOrStdout(), e, dl, a.cfg.DownloadDir)
		},
	}
	cmd.Flags().StringVar(&format, "format", string(report.FormatPDF), `download format after submitting: pdf, docx or "" to skip`)
	cmd.Flags().StringArrayVar(&attachs, "attach", nil, "add a file, as category=path (repeatable)")
	return cmd
}

// attach uploads one category=path pair.
func attach(e *engine.Engine, pair string) error {
	name, path, ok := strings.Cut(pair, "=")
	if !ok || path == "" {
		return fmt.Errorf("--attach %q: expected category=path", pair)
	}
	c, err := attachment.ParseCategory(name)
	if err != nil {
		return fmt.Errorf("--attach %q: %w", pair, err)
	}
	f, err := attachment.OpenLocal(path)
	if err != nil {
		return err
	}
	if _, err := e.Upload(c, f); err != nil {
		return fmt.Errorf("attach %s: %w", path, err)
	}
	return nil
}

func submit(ctx context.Context, out io.Writer, e *engine.Engine, format report.Format, dir string) error {
	if err := e.Submit(ctx); err != nil {
		if errors.Is(err, engine.ErrDraftInvalid) {
			printErrors(out, e.Errors())
			return errDraftInvalid
		}
		if msg := e.Status().SubmitError; msg != "" {
			return fmt.Errorf("%s: %w", msg, err)
		}
		return err
	}

	st := e.Status()
	fmt.Fprintf(out, "Utworzono zgłoszenie nr %d.\n", st.DocumentID)
	if format == "" {
		return nil
	}
	if err := e.Download(ctx, format); err != nil {
		if msg := e.Status().DownloadError; msg != "" {
			return errors.New(msg)
		}
		return err
	}
	fmt.Fprintf(out, "Zapisano plik %s\n", filepath.Join(dir, docservice.FileName(st.DocumentID, format)))
	return nil
}

func printErrors(w io.Writer, errs map[string]string) {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s: %s\n", k, errs[k])
	}
}
