package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/echo-capture/internal/domain/capture/service"
	"github.com/FACorreiaa/echo-capture/internal/domain/common"
)

func newSuggestCommand(opts *options) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "suggest [text...]",
		Short: "Suggest a category for text without an amount",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args)
			if err != nil {
				return err
			}

			return opts.withService(cmd, false, func(ctx context.Context, svc *service.CaptureServiceImpl) error {
				id, err := svc.Suggest(ctx, text, common.Direction(dir), nil)
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				if opts.jsonOutput {
					return json.NewEncoder(w).Encode(map[string]string{"category_id": id})
				}
				_, err = fmt.Fprintf(w, "%s\t%s\n", id, displayName(svc.Catalog(), id))
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&dir, "direction", "d", string(common.DirectionExpense), "expense or income")

	return cmd
}
