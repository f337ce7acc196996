package cli

import (
	"fmt"
	"strconv"

	"github.com/HYB-0225/nextkey/config"
	"github.com/HYB-0225/nextkey/internal/crypto_utils"
	"github.com/HYB-0225/nextkey/internal/devserver"
	"github.com/HYB-0225/nextkey/internal/logger"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newSchemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schemes",
		Short: "List the supported encryption schemes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
			table.SetCenterSeparator("|")
			table.SetHeader([]string{"Scheme", "Name", "Security", "Deprecated", "Description"})
			for _, m := range crypto_utils.ListSchemes() {
				table.Append([]string{
					m.Scheme.String(),
					m.Name,
					m.SecurityLevel,
					strconv.FormatBool(m.Deprecated),
					m.Description,
				})
			}
			table.Render()
		},
	}
}

func newKeygenCmd() *cobra.Command {
	var scheme string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a project key for a scheme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := crypto_utils.ParseScheme(scheme)
			if err != nil {
				return err
			}
			key, err := crypto_utils.GenerateKey(s)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), key)
			return err
		},
	}
	cmd.Flags().StringVar(&scheme, "scheme", crypto_utils.SchemeAES256GCM.String(), "encryption scheme")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the development server configured by DEVSERVER_* settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadServer(cfgFile)
			if err != nil {
				return err
			}
			if err := logger.Setup(cfg.Log.Level); err != nil {
				return err
			}

			srv, closeLedger, err := devserver.Open(cmd.Context(), cfg.DevServer)
			if err != nil {
				return err
			}
			defer closeLedger()

			return srv.Run()
		},
	}
}
