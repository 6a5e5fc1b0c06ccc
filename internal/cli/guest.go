package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGuestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guest",
		Short: "Guest registration commands",
	}

	cmd.AddCommand(newGuestGetCmd())
	cmd.AddCommand(newGuestRegisterCmd())
	cmd.AddCommand(newGuestCancelCmd())
	cmd.AddCommand(newGuestFriendCmd())
	cmd.AddCommand(newGuestListCmd())
	cmd.AddCommand(newGuestRemoveCmd())
	cmd.AddCommand(newGuestClearCmd())

	return cmd
}

func guestPath(id string, suffix string) string {
	return fmt.Sprintf("/api/v1/guests/%s%s", id, suffix)
}

func newGuestGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a registration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Guest

			if err := client.Get(guestPath(args[0], ""), &result); err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	}
}

func newGuestRegisterCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "register <id> <name>",
		Short: "Register a guest",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": args[1], "username": username}

			var result RegisterResult

			if err := client.Put(guestPath(args[0], ""), req, &result); err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Guest handle")

	return cmd
}

func newGuestCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel your own registration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result CancelResult

			if err := client.Post(guestPath(args[0], "/cancel"), nil, &result); err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	}
}

func newGuestFriendCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "friend <id> <name>",
		Short: "Bring a friend along",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": args[1], "username": username}

			var result FriendResult

			if err := client.Post(guestPath(args[0], "/friends"), req, &result); err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Friend's handle")

	return cmd
}

func newGuestListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registrations in order (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GuestList

			if err := client.Get("/api/v1/admin/guests", &result); err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	}
}

func newGuestRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a registration regardless of policy (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/admin/guests/" + args[0]); err != nil {
				return err
			}

			NewOutputTo(cfg.Output, cmd.OutOrStdout()).PrintMessage("Guest removed")
			return nil
		},
	}
}

func newGuestClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every registration (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the guest list without --yes")
			}
			if err := client.Delete("/api/v1/admin/guests"); err != nil {
				return err
			}

			NewOutputTo(cfg.Output, cmd.OutOrStdout()).PrintMessage("Guest list cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm clearing all registrations")

	return cmd
}
