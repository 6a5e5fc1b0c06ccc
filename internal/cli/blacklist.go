package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newBlacklistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blacklist",
		Short: "Blacklist commands (admin)",
	}

	cmd.AddCommand(newBlacklistListCmd())
	cmd.AddCommand(newBlacklistAddCmd())
	cmd.AddCommand(newBlacklistRemoveCmd())
	cmd.AddCommand(newBlacklistCheckCmd())

	return cmd
}

func newBlacklistListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every ban",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Blacklist

			if err := client.Get("/api/v1/admin/blacklist", &result); err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	}
}

func newBlacklistAddCmd() *cobra.Command {
	var resolve bool

	cmd := &cobra.Command{
		Use:   "add <id|@handle>",
		Short: "Ban an identity or a handle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"entry": args[0], "resolve": resolve}

			var result BanResult

			if err := client.Post("/api/v1/admin/blacklist", req, &result); err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&resolve, "resolve", false, "Also ban the identity last seen with the handle")

	return cmd
}

func newBlacklistRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id|@handle>",
		Short: "Lift a ban",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/admin/blacklist/" + url.PathEscape(args[0])); err != nil {
				return err
			}

			NewOutputTo(cfg.Output, cmd.OutOrStdout()).PrintMessage("Ban lifted")
			return nil
		},
	}
}

func newBlacklistCheckCmd() *cobra.Command {
	var (
		id       string
		username string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether an identity or handle is banned",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if id != "" {
				query.Set("id", id)
			}
			if username != "" {
				query.Set("username", username)
			}

			var result BanCheck

			if err := client.Get("/api/v1/admin/blacklist/check?"+query.Encode(), &result); err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Identity to check")
	cmd.Flags().StringVar(&username, "username", "", "Handle to check")
	cmd.MarkFlagsOneRequired("id", "username")

	return cmd
}
