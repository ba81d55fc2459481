// Package cli implements unitctl, a small command-line front end to the
// Unit API built on the client package.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bodrovis/unitx/client"
	"github.com/bodrovis/unitx/config"
	"github.com/bodrovis/unitx/internal/logging"
)

const (
	keyToken     = "token"
	keyAPIURL    = "api_url"
	keyOutput    = "output"
	keyLogLevel  = "log_level"
	keyLogFormat = "log_format"
	keyTimeout   = "timeout"
	keyParallel  = "parallel"
)

// app carries what every command needs. Commands resolve settings through
// v so flags, UNIT_* variables and the config file layer the usual way.
type app struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer
	logger *slog.Logger

	// newClient is swapped in tests.
	newClient func(token string, opts ...client.Option) (*client.Client, error)
	// extraOpts are appended to every client, e.g. a test transport.
	extraOpts []client.Option
}

// Execute runs unitctl against the process arguments.
func Execute() error {
	root := NewRootCommand(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// NewRootCommand builds the command tree writing to out and errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	return newRootCommand(&app{
		v:         viper.New(),
		out:       out,
		errOut:    errOut,
		newClient: client.NewClient,
	})
}

func newRootCommand(a *app) *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "unitctl",
		Short: "Unit banking API CLI",
		Long: `unitctl talks to the Unit banking API.

Settings come from flags, then UNIT_* environment variables (a .env file
is loaded when present), then $HOME/.unitctl.yaml.`,
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd, cfgFile)
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.unitctl.yaml)")
	pf.String("token", "", "API token (env UNIT_TOKEN)")
	pf.String("api-url", config.DefaultAPIURL, "API base URL (env UNIT_API_URL)")
	pf.StringP("output", "o", "table", "output format: table, json, yaml")
	pf.String("log-level", "warn", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text, json")
	pf.Duration("timeout", 30*time.Second, "HTTP timeout")
	pf.Int("parallel", 4, "concurrent requests for multi-id commands")

	for key, flag := range map[string]string{
		keyToken:     "token",
		keyAPIURL:    "api-url",
		keyOutput:    "output",
		keyLogLevel:  "log-level",
		keyLogFormat: "log-format",
		keyTimeout:   "timeout",
		keyParallel:  "parallel",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		newAccountsCommand(a),
		newCustomersCommand(a),
		newPaymentsCommand(a),
		newCounterpartiesCommand(a),
		newEventsCommand(a),
		newStatementsCommand(a),
		newWebhooksCommand(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, cfgFile string) error {
	_ = config.LoadDotEnv()

	a.v.SetEnvPrefix("UNIT")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		a.v.SetConfigFile(filepath.Join(home, ".unitctl.yaml"))
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read config: %w", err)
		}
		// Config file not found; flags and env only
	}

	format := a.v.GetString(keyOutput)
	if !validFormat(format) {
		return fmt.Errorf("unknown output format %q", format)
	}

	a.logger = logging.New(cmd.ErrOrStderr(), logging.ParseLevel(a.v.GetString(keyLogLevel)), a.v.GetString(keyLogFormat))
	return nil
}

// client builds an API client from the resolved settings.
func (a *app) client() (*client.Client, error) {
	token := strings.TrimSpace(a.v.GetString(keyToken))
	if token == "" {
		return nil, fmt.Errorf("no API token: pass --token or set %s", config.EnvToken)
	}
	opts := []client.Option{
		client.WithBaseURL(a.v.GetString(keyAPIURL)),
		client.WithUserAgent("unitctl/1.0.0"),
	}
	if a.logger != nil {
		opts = append(opts, client.WithLogger(a.logger))
	}
	if len(a.extraOpts) == 0 {
		opts = append(opts, client.WithHTTPTimeout(a.v.GetDuration(keyTimeout)))
	}
	opts = append(opts, a.extraOpts...)
	return a.newClient(token, opts...)
}

func (a *app) render(v any) error {
	return render(a.out, a.v.GetString(keyOutput), v)
}

func (a *app) parallel() int {
	if n := a.v.GetInt(keyParallel); n > 0 {
		return n
	}
	return 1
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// renderMany prints a single result bare and several as a list.
func renderMany[T any](a *app, items []T) error {
	if len(items) == 1 {
		return a.render(items[0])
	}
	return a.render(items)
}
