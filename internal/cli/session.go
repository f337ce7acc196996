package cli

import (
	"fmt"

	"github.com/HYB-0225/nextkey/internal/client"
	"github.com/HYB-0225/nextkey/internal/dto"
	"github.com/spf13/cobra"
)

// report prints the business response and turns a failure code into an error.
func report[T any](cmd *cobra.Command, op string, resp dto.APIResponse[T]) error {
	if err := printJSON(cmd.OutOrStdout(), resp); err != nil {
		return err
	}
	return client.BusinessErr(op, resp)
}

func newLoginCmd() *cobra.Command {
	var hwid, ip string

	cmd := &cobra.Command{
		Use:   "login <card-key>",
		Short: "Log in with a card key and print the issued token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			resp, err := c.Login(cmd.Context(), args[0], hwid, ip)
			if err != nil {
				return err
			}
			return report(cmd, "login", resp)
		},
	}
	cmd.Flags().StringVar(&hwid, "hwid", "", "hardware id to bind")
	cmd.Flags().StringVar(&ip, "ip", "", "client ip to bind")
	return cmd
}

func newHeartbeatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "heartbeat",
		Short: "Send a heartbeat for the current token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			resp, err := c.Heartbeat(cmd.Context())
			if err != nil {
				return err
			}
			return report(cmd, "heartbeat", resp)
		},
	}
}

func newCloudVarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cloud-var <key>",
		Short: "Read a cloud variable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			resp, err := c.GetCloudVar(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return report(cmd, "cloud-var", resp)
		},
	}
}

func newCustomDataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "custom-data <value>",
		Short: "Replace the card custom data, an empty value clears it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			resp, err := c.UpdateCustomData(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return report(cmd, "custom-data", resp)
		},
	}
}

func newProjectInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "project-info",
		Short: "Show project name, version and update url",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			resp, err := c.GetProjectInfo(cmd.Context())
			if err != nil {
				return err
			}
			return report(cmd, "project-info", resp)
		},
	}
}

func newUnbindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unbind <card-key> <hwid>",
		Short: "Unbind a device from a card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			if _, ok := c.Session().Token(); !ok {
				return fmt.Errorf("unbind needs --token from a previous login")
			}
			resp, err := c.UnbindHWID(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return report(cmd, "unbind", resp)
		},
	}
}
