package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mrsinham/accidentwizard/cmd/accidentwizard/wizard"
	"github.com/mrsinham/accidentwizard/internal/report"
)

func newWizardCmd(a *app) *cobra.Command {
	var (
		from   string
		sample bool
	)
	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Fill in the report interactively",
		Long: `Opens the step-by-step report wizard in the terminal. A draft saved with
"Zapisz szkic" can be reopened with --from.`,
		Annotations: map[string]string{annotationTUI: "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			e, err := a.newEngine()
			if err != nil {
				return err
			}
			defer e.Close()

			if sample {
				e.LoadDraft(report.SampleDraft(1, nil))
			}
			return wizard.Run(ctx, e, wizard.Options{
				Strict:      a.cfg.Gating,
				From:        from,
				DownloadDir: a.cfg.DownloadDir,
				Logger:      a.log,
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "draft YAML file to continue")
	cmd.Flags().BoolVar(&sample, "sample", false, "start from randomly generated data")
	cmd.MarkFlagsMutuallyExclusive("from", "sample")
	return cmd
}
