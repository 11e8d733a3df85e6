package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/echo-capture/internal/domain/capture/batch"
	"github.com/FACorreiaa/echo-capture/internal/domain/capture/repository"
	"github.com/FACorreiaa/echo-capture/internal/domain/capture/service"
)

func newBatchCommand(opts *options) *cobra.Command {
	var (
		save    bool
		tz      string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Parse an exported notes file, one utterance per row (- for stdin)",
		Example: `  capture batch notes.csv
  capture batch --save --tz Africa/Cairo voice-notes.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readFile(cmd, args[0])
			if err != nil {
				return err
			}
			userID, err := opts.user()
			if err != nil {
				return err
			}

			bopts := batch.Options{Workers: workers}
			if tz != "" {
				if bopts.Location, err = time.LoadLocation(tz); err != nil {
					return fmt.Errorf("invalid --tz: %w", err)
				}
			}

			return opts.withService(cmd, save, func(ctx context.Context, svc *service.CaptureServiceImpl) error {
				res, err := svc.ParseBatch(ctx, userID, data, bopts)
				if err != nil {
					return err
				}
				if !save {
					return printBatch(cmd.OutOrStdout(), res, svc.Catalog(), opts.jsonOutput)
				}

				var stored []*repository.Transaction
				for _, row := range res.Rows {
					if len(row.Result.Transactions) == 0 {
						continue
					}
					rows, err := svc.Commit(ctx, userID, row.Text, row.Result.Transactions, nil)
					if err != nil {
						return fmt.Errorf("line %d: %w", row.Line, err)
					}
					stored = append(stored, rows...)
				}
				return printRows(cmd.OutOrStdout(), stored, svc.Catalog(), opts.jsonOutput)
			})
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "store every extracted transaction in the bolt file")
	cmd.Flags().StringVar(&tz, "tz", "", "time zone for dates without one (default UTC)")
	cmd.Flags().IntVar(&workers, "workers", 0, "parser goroutines (default GOMAXPROCS)")

	return cmd
}

func readFile(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	return os.ReadFile(path)
}
