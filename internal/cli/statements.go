package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bodrovis/unitx/client"
)

func newStatementsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "statements",
		Aliases: []string{"statement", "st"},
		Short:   "Monthly account statements",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List statements",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.Statements.List(commandContext(cmd), client.ListStatementsParams{
				Page:       pageFlags(cmd),
				AccountID:  stringFlag(cmd, "account"),
				CustomerID: stringFlag(cmd, "customer"),
			})
			if err != nil {
				return err
			}
			return a.render(res.Data)
		},
	}
	addPageFlags(list)
	list.Flags().String("account", "", "filter by account id")
	list.Flags().String("customer", "", "filter by customer id")

	html := &cobra.Command{
		Use:   "html ID",
		Short: "Print a statement as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			customer, _ := cmd.Flags().GetString("customer")
			body, err := c.Statements.HTML(commandContext(cmd), args[0], customer)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), body)
			return err
		},
	}
	html.Flags().String("customer", "", "customer id for joint accounts")

	pdf := &cobra.Command{
		Use:   "pdf ID",
		Short: "Download a statement as PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			customer, _ := cmd.Flags().GetString("customer")
			dest, _ := cmd.Flags().GetString("out")
			if dest == "" {
				dest = "statement-" + args[0] + ".pdf"
			}
			if err := c.Statements.DownloadPDF(commandContext(cmd), args[0], customer, dest); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", dest)
			return nil
		},
	}
	pdf.Flags().String("customer", "", "customer id for joint accounts")
	pdf.Flags().String("out", "", "destination file (default statement-ID.pdf)")

	cmd.AddCommand(list, html, pdf)
	return cmd
}
