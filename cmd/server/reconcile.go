package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func reconcileCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "reconcile ORDER_ID",
		Short: "Sync one order's status with Midtrans",
		Long: `Query Midtrans for the transaction status of ORDER_ID, write the mapped
label to the matching order and print it. Useful for repairing orders whose
status check never ran.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := bootstrap(loadConfig())
			if err != nil {
				return err
			}
			defer deps.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			result, err := deps.status.Reconcile(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "order:   %s\n", result.OrderID)
			fmt.Fprintf(out, "gateway: %s\n", result.GatewayStatus)
			fmt.Fprintf(out, "status:  %s\n", result.Status)
			switch {
			case result.Locked:
				fmt.Fprintln(out, "another reconciliation holds this order, nothing written")
			case !result.Found:
				fmt.Fprintln(out, "no matching order document, nothing written")
			case result.Updated:
				fmt.Fprintf(out, "updated %s: %q -> %q\n", result.DocumentID, result.PreviousStatus, result.Status)
			default:
				fmt.Fprintf(out, "%s already up to date\n", result.DocumentID)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall timeout for the reconciliation")

	return cmd
}
