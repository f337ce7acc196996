package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/HYB-0225/nextkey/config"
	"github.com/HYB-0225/nextkey/internal/client"
	"github.com/HYB-0225/nextkey/internal/crypto_utils"
	"github.com/HYB-0225/nextkey/internal/envelope"
	"github.com/HYB-0225/nextkey/internal/logger"
	"github.com/spf13/cobra"
)

var cfgFile string

// connection flags and the environment variables they override
var overrides = map[string]string{
	"server":    "NEXTKEY_SERVER_URL",
	"project":   "NEXTKEY_PROJECT_UUID",
	"secret":    "NEXTKEY_SECRET",
	"scheme":    "NEXTKEY_SCHEME",
	"token":     "NEXTKEY_TOKEN",
	"log-level": "NEXTKEY_LOG_LEVEL",
}

// NewRootCmd builds the nextkey command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nextkey",
		Short:         "Client for the NextKey card licensing service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "env file with NEXTKEY_* settings")
	flags.String("server", "", "server url")
	flags.String("project", "", "project uuid")
	flags.String("secret", "", "project encryption key")
	flags.String("scheme", "", "encryption scheme")
	flags.String("token", "", "token from a previous login")
	flags.String("log-level", "", "log level")

	root.AddCommand(
		newLoginCmd(),
		newHeartbeatCmd(),
		newCloudVarCmd(),
		newCustomDataCmd(),
		newProjectInfoCmd(),
		newUnbindCmd(),
		newSchemesCmd(),
		newKeygenCmd(),
		newServeCmd(),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// loadConfig copies explicitly set flags into the environment and then reads the config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	for flag, env := range overrides {
		f := cmd.Flags().Lookup(flag)
		if f != nil && f.Changed {
			if err := os.Setenv(env, f.Value.String()); err != nil {
				return nil, err
			}
		}
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := logger.Setup(cfg.Log.Level); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newClient(cmd *cobra.Command) (*client.Client, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	scheme, err := crypto_utils.ParseScheme(cfg.Client.Scheme)
	if err != nil {
		return nil, err
	}

	opts := []client.Option{
		client.WithTimeout(cfg.Client.Timeout),
		client.WithGuard(envelope.NewGuard(cfg.Client.MaxSkew)),
	}
	if cfg.Client.Token != "" {
		opts = append(opts, client.WithToken(cfg.Client.Token))
	}
	return client.New(cfg.Client.ServerURL, cfg.Client.ProjectUUID, cfg.Client.Secret, scheme, opts...)
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
