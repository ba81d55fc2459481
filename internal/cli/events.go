package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bodrovis/unitx/client"
)

func newEventsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "events",
		Aliases: []string{"event"},
		Short:   "Account and payment events",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List events",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			params := client.ListEventsParams{Page: pageFlags(cmd)}
			params.Type, _ = cmd.Flags().GetStringSlice("type")
			if params.Since, err = timeFlag(cmd, "since"); err != nil {
				return err
			}
			if params.Until, err = timeFlag(cmd, "until"); err != nil {
				return err
			}
			res, err := c.Events.List(commandContext(cmd), params)
			if err != nil {
				return err
			}
			return a.render(res.Data)
		},
	}
	addPageFlags(list)
	list.Flags().StringSlice("type", nil, "filter by event type, e.g. account.created")
	list.Flags().String("since", "", "RFC 3339 lower bound")
	list.Flags().String("until", "", "RFC 3339 upper bound")

	fire := &cobra.Command{
		Use:   "fire ID",
		Short: "Redeliver an event to subscribed webhooks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			if err := c.Events.Fire(commandContext(cmd), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "fired event %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, fire)
	return cmd
}
