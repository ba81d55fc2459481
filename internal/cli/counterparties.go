package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bodrovis/unitx/client"
)

func newCounterpartiesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "counterparties",
		Aliases: []string{"counterparty", "cp"},
		Short:   "Saved ACH counterparties",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List counterparties",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.Counterparties.List(commandContext(cmd), client.ListCounterpartiesParams{
				Page:       pageFlags(cmd),
				CustomerID: stringFlag(cmd, "customer"),
			})
			if err != nil {
				return err
			}
			return a.render(res.Data)
		},
	}
	addPageFlags(list)
	list.Flags().String("customer", "", "filter by customer id")

	del := &cobra.Command{
		Use:     "delete ID...",
		Aliases: []string{"rm"},
		Short:   "Delete counterparties",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			for _, id := range args {
				if err := c.Counterparties.Delete(commandContext(cmd), id); err != nil {
					return fmt.Errorf("%s: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted counterparty %s\n", id)
			}
			return nil
		},
	}

	cmd.AddCommand(list, del)
	return cmd
}
