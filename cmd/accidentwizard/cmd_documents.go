package main

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mrsinham/accidentwizard/internal/docservice"
	"github.com/mrsinham/accidentwizard/internal/report"
)

func newDocumentsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "documents [id]",
		Short: "List the documents known to the backend",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.BackendURL == "" {
				return errors.New("documents needs backend_url (ACCIDENT_BACKEND_URL)")
			}
			c, err := docservice.NewClient(a.cfg.BackendURL, docservice.WithLogger(a.log))
			if err != nil {
				return err
			}

			var docs []report.Document
			if len(args) == 1 {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid document id %q", args[0])
				}
				d, err := c.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				docs = append(docs, d)
			} else if docs, err = c.List(cmd.Context()); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tUTWORZONO\tPESEL\tNAZWISKO\tŚWIADKOWIE\tZAŁĄCZNIKI")
			for _, d := range docs {
				name := d.Draft.Get(report.FieldFirstName) + " " + d.Draft.Get(report.FieldLastName)
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\n",
					d.ID,
					d.CreatedAt.Local().Format("2006-01-02 15:04"),
					d.Draft.Get(report.FieldPESEL),
					name,
					len(d.Draft.Witnesses),
					len(d.Attachments),
				)
			}
			return tw.Flush()
		},
	}
}
