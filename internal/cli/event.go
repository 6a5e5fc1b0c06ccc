package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newSlotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Capacity commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show used and free slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Slots

			if err := client.Get("/api/v1/slots", &result); err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <max>",
		Short: "Set the maximum number of registrations (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			maxSlots, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}

			var result Slots

			if err := client.Put("/api/v1/admin/capacity", map[string]int{"max_slots": maxSlots}, &result); err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	})

	return cmd
}

func newEventCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Event details commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the announced event",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Event

			if err := client.Get("/api/v1/event", &result); err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <place> <time> <price>",
		Short: "Announce the event (admin)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"place": args[0], "time": args[1], "price": args[2]}

			var result Event

			if err := client.Put("/api/v1/admin/event", req, &result); err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Withdraw the announcement (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/admin/event"); err != nil {
				return err
			}

			NewOutputTo(cfg.Output, cmd.OutOrStdout()).PrintMessage("Event cleared")
			return nil
		},
	})

	return cmd
}

func newPriceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Standalone price commands (admin)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the standalone price",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Price

			if err := client.Get("/api/v1/admin/price", &result); err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <price>",
		Short: "Set the standalone price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Price

			if err := client.Put("/api/v1/admin/price", map[string]string{"price": args[0]}, &result); err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	})

	return cmd
}

func newPolicyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Self-unregister policy commands (admin)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show whether guests may cancel themselves",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Policy

			if err := client.Get("/api/v1/admin/policy", &result); err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <true|false>",
		Short: "Allow or forbid self-unregistering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			allowed, err := strconv.ParseBool(args[0])
			if err != nil {
				return err
			}

			var result Policy

			if err := client.Put("/api/v1/admin/policy", map[string]bool{"unregister_allowed": allowed}, &result); err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	})

	return cmd
}

func newFriendsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "friends",
		Short: "Plus-one settings commands (admin)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show plus-one settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result FriendSettings

			if err := client.Get("/api/v1/admin/friends", &result); err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	})

	var (
		enabled bool
		limit   int
	)

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Change plus-one settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			if cmd.Flags().Changed("limit") {
				req["limit"] = limit
			}
			if cmd.Flags().Changed("enabled") {
				req["enabled"] = enabled
			}

			var result FriendSettings

			if err := client.Put("/api/v1/admin/friends", req, &result); err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	}
	setCmd.Flags().BoolVar(&enabled, "enabled", false, "Turn plus-ones on or off")
	setCmd.Flags().IntVar(&limit, "limit", 0, "Friends per guest (a positive limit also enables plus-ones)")
	setCmd.MarkFlagsOneRequired("enabled", "limit")

	cmd.AddCommand(setCmd)

	return cmd
}
