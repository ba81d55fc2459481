package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/bodrovis/unitx/client"
)

func newPaymentsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "payments",
		Aliases: []string{"payment", "pay"},
		Short:   "ACH, book, wire and other payments",
	}

	get := &cobra.Command{
		Use:   "get ID...",
		Short: "Get one or more payments",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			payments, err := fetchAll(commandContext(cmd), args, a.parallel(), func(ctx context.Context, id string) (client.Payment, error) {
				res, err := c.Payments.Get(ctx, id)
				if err != nil {
					return nil, err
				}
				return res.Data, nil
			})
			if err != nil {
				return err
			}
			return renderMany(a, payments)
		},
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List payments",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			params := client.ListPaymentsParams{Page: pageFlags(cmd)}
			params.AccountID = stringFlag(cmd, "account")
			params.CustomerID = stringFlag(cmd, "customer")
			params.Status, _ = cmd.Flags().GetStringSlice("status")
			params.Type, _ = cmd.Flags().GetStringSlice("type")
			if params.Since, err = timeFlag(cmd, "since"); err != nil {
				return err
			}
			if params.Until, err = timeFlag(cmd, "until"); err != nil {
				return err
			}

			res, err := c.Payments.List(commandContext(cmd), params)
			if err != nil {
				return err
			}
			return a.render(res.Data)
		},
	}
	addPageFlags(list)
	list.Flags().String("account", "", "filter by account id")
	list.Flags().String("customer", "", "filter by customer id")
	list.Flags().StringSlice("status", nil, "filter by status")
	list.Flags().StringSlice("type", nil, "filter by payment type")
	list.Flags().String("since", "", "RFC 3339 lower bound")
	list.Flags().String("until", "", "RFC 3339 upper bound")

	cancel := &cobra.Command{
		Use:   "cancel ID",
		Short: "Cancel a pending payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.Payments.Cancel(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return a.render(res.Data)
		},
	}

	cmd.AddCommand(get, list, cancel)
	return cmd
}

func timeFlag(cmd *cobra.Command, name string) (*time.Time, error) {
	s := stringFlag(cmd, name)
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
