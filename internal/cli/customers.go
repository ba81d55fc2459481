package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bodrovis/unitx/client"
)

func newCustomersCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "customers",
		Aliases: []string{"customer", "cust"},
		Short:   "Individual and business customers",
	}

	get := &cobra.Command{
		Use:   "get ID...",
		Short: "Get one or more customers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			customers, err := fetchAll(commandContext(cmd), args, a.parallel(), func(ctx context.Context, id string) (client.Customer, error) {
				res, err := c.Customers.Get(ctx, id)
				if err != nil {
					return nil, err
				}
				return res.Data, nil
			})
			if err != nil {
				return err
			}
			return renderMany(a, customers)
		},
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List customers",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			params := client.ListCustomersParams{Page: pageFlags(cmd)}
			params.Query = stringFlag(cmd, "query")
			params.Email = stringFlag(cmd, "email")
			params.Status, _ = cmd.Flags().GetStringSlice("status")

			res, err := c.Customers.List(commandContext(cmd), params)
			if err != nil {
				return err
			}
			return a.render(res.Data)
		},
	}
	addPageFlags(list)
	list.Flags().String("query", "", "search by name or email")
	list.Flags().String("email", "", "filter by email")
	list.Flags().StringSlice("status", nil, "filter by status (Active, Archived)")

	cmd.AddCommand(get, list)
	return cmd
}

// stringFlag returns nil for flags the user did not set.
func stringFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}
