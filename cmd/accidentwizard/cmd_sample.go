package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrsinham/accidentwizard/cmd/accidentwizard/wizard"
	"github.com/mrsinham/accidentwizard/internal/report"
)

func newSampleCmd(_ *app) *cobra.Command {
	var (
		output    string
		witnesses int
		seed      int64
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate a valid draft with random data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if witnesses < 0 {
				return fmt.Errorf("--witnesses must not be negative, got %d", witnesses)
			}
			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}
			rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1))
			df := &wizard.DraftFile{Draft: report.SampleDraft(witnesses, rng)}

			if output == "" {
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(df); err != nil {
					return err
				}
				return enc.Close()
			}
			if err := wizard.SaveToYAML(output, df); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Zapisano szkic w %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	cmd.Flags().IntVar(&witnesses, "witnesses", 1, "number of witnesses")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for reproducible output")
	return cmd
}
