package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/echo-capture/internal/domain/capture/service"
)

func newShowCommand(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List saved transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := opts.user()
			if err != nil {
				return err
			}

			return opts.withService(cmd, true, func(ctx context.Context, svc *service.CaptureServiceImpl) error {
				rows, err := svc.ListTransactions(ctx, userID, limit)
				if err != nil {
					return err
				}
				return printRows(cmd.OutOrStdout(), rows, svc.Catalog(), opts.jsonOutput)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum rows to show (0 for all)")

	return cmd
}
