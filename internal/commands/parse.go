package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/echo-capture/internal/domain/capture/service"
)

func newParseCommand(opts *options) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "parse [text...]",
		Short: "Extract transactions from a sentence (stdin when no args)",
		Example: `  capture parse "اشتريت اكل ب20 جنيه و كمان دفعت 10 جنيه مواصلات"
  echo "قبضت المرتب الف جنيه" | capture parse --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args)
			if err != nil {
				return err
			}
			userID, err := opts.user()
			if err != nil {
				return err
			}

			return opts.withService(cmd, save, func(ctx context.Context, svc *service.CaptureServiceImpl) error {
				result := svc.Parse(ctx, userID, text, nil)
				if !save {
					return printResult(cmd.OutOrStdout(), result, svc.Catalog(), opts.jsonOutput)
				}

				if len(result.Transactions) == 0 {
					return fmt.Errorf("nothing to save: no amount found in %q", text)
				}
				rows, err := svc.Commit(ctx, userID, text, result.Transactions, nil)
				if err != nil {
					return err
				}
				return printRows(cmd.OutOrStdout(), rows, svc.Catalog(), opts.jsonOutput)
			})
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "store the transactions in the bolt file")

	return cmd
}
