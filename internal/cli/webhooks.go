package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bodrovis/unitx/client"
)

var errBadSignature = errors.New("signature mismatch")

func newWebhooksCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "webhooks",
		Aliases: []string{"webhook", "wh"},
		Short:   "Webhook subscriptions",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List webhooks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.Webhooks.List(commandContext(cmd), pageFlags(cmd))
			if err != nil {
				return err
			}
			return a.render(res.Data)
		},
	}
	addPageFlags(list)

	toggle := func(use, short string, enable bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " ID",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.client()
				if err != nil {
					return err
				}
				do := c.Webhooks.Disable
				if enable {
					do = c.Webhooks.Enable
				}
				res, err := do(commandContext(cmd), args[0])
				if err != nil {
					return err
				}
				return a.render(res.Data)
			},
		}
	}

	verify := &cobra.Command{
		Use:   "verify [FILE]",
		Short: "Check the " + client.SignatureHeader + " of a delivered payload",
		Long: `verify reads a webhook payload from FILE (or stdin) and checks it
against the signature using the webhook secret token.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, _ := cmd.Flags().GetString("secret")
			signature, _ := cmd.Flags().GetString("signature")
			if secret == "" || signature == "" {
				return errors.New("--secret and --signature are required")
			}

			var body []byte
			var err error
			if len(args) == 1 && args[0] != "-" {
				body, err = os.ReadFile(args[0])
			} else {
				body, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read payload: %w", err)
			}

			if !client.VerifySignature(body, signature, secret) {
				return errBadSignature
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signature ok")
			return nil
		},
	}
	verify.Flags().String("secret", "", "webhook secret token")
	verify.Flags().String("signature", "", "value of the "+client.SignatureHeader+" header")

	cmd.AddCommand(list, toggle("enable", "Enable a webhook", true), toggle("disable", "Disable a webhook", false), verify)
	return cmd
}
