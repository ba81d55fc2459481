package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bodrovis/unitx/client"
)

func newAccountsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account", "acc"},
		Short:   "Deposit and credit accounts",
	}

	get := &cobra.Command{
		Use:   "get ID...",
		Short: "Get one or more accounts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			include, _ := cmd.Flags().GetStringSlice("include")
			accounts, err := fetchAll(commandContext(cmd), args, a.parallel(), func(ctx context.Context, id string) (client.Account, error) {
				res, err := c.Accounts.Get(ctx, id, include...)
				if err != nil {
					return nil, err
				}
				return res.Data, nil
			})
			if err != nil {
				return err
			}
			return renderMany(a, accounts)
		},
	}
	get.Flags().StringSlice("include", nil, "related resources to include, e.g. customer")

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List accounts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			params := client.ListAccountsParams{Page: pageFlags(cmd)}
			if v, _ := cmd.Flags().GetString("customer"); v != "" {
				params.CustomerID = &v
			}
			params.Status, _ = cmd.Flags().GetStringSlice("status")

			res, err := c.Accounts.List(commandContext(cmd), params)
			if err != nil {
				return err
			}
			return a.render(res.Data)
		},
	}
	addPageFlags(list)
	list.Flags().String("customer", "", "filter by customer id")
	list.Flags().StringSlice("status", nil, "filter by status (Open, Frozen, Closed)")

	limits := &cobra.Command{
		Use:   "limits ID",
		Short: "Show account limits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.Accounts.Limits(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return a.render(res.Data)
		},
	}

	cmd.AddCommand(get, list, limits)
	return cmd
}

func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().Int("limit", 100, "page size")
	cmd.Flags().Int("offset", 0, "page offset")
}

func pageFlags(cmd *cobra.Command) client.Page {
	var p client.Page
	if cmd.Flags().Changed("limit") {
		n, _ := cmd.Flags().GetInt("limit")
		p.Limit = &n
	}
	if cmd.Flags().Changed("offset") {
		n, _ := cmd.Flags().GetInt("offset")
		p.Offset = &n
	}
	return p
}
