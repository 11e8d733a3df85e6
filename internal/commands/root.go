// Package commands implements the capture command-line tool.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/FACorreiaa/echo-capture/internal/domain/capture/catalog"
	"github.com/FACorreiaa/echo-capture/internal/domain/capture/parser"
	"github.com/FACorreiaa/echo-capture/internal/domain/capture/repository"
	"github.com/FACorreiaa/echo-capture/internal/domain/capture/service"
)

// LocalUserID owns everything the CLI stores unless --user says otherwise.
var LocalUserID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("echo-capture:local"))

type options struct {
	catalogPath string
	dbPath      string
	userID      string
	jsonOutput  bool
	verbose     bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "capture",
		Short: "Turn Egyptian Arabic sentences into transactions",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.catalogPath, "catalog", os.Getenv("CAPTURE_CATALOG_PATH"), "category catalog YAML (default: built-in)")
	flags.StringVar(&opts.dbPath, "db", envOr("CAPTURE_BOLT_PATH", "capture.db"), "bolt file for saved transactions")
	flags.StringVar(&opts.userID, "user", LocalUserID.String(), "user id transactions are saved under")
	flags.BoolVar(&opts.jsonOutput, "json", false, "print JSON instead of a table")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log service activity to stderr")

	rootCmd.AddCommand(
		newParseCommand(opts),
		newBatchCommand(opts),
		newSuggestCommand(opts),
		newShowCommand(opts),
		newCatalogCommand(opts),
		newTokenCommand(opts),
	)

	return rootCmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (o *options) logger(cmd *cobra.Command) *slog.Logger {
	if !o.verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (o *options) user() (uuid.UUID, error) {
	id, err := uuid.Parse(o.userID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --user %q: %w", o.userID, err)
	}
	return id, nil
}

func (o *options) loadCatalog() (*catalog.Catalog, error) {
	if o.catalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(o.catalogPath)
}

// withService builds a capture service. When store is true the service is
// backed by the bolt file, which is closed once fn returns.
func (o *options) withService(cmd *cobra.Command, store bool, fn func(context.Context, *service.CaptureServiceImpl) error) error {
	cat, err := o.loadCatalog()
	if err != nil {
		return err
	}

	var repo repository.TransactionRepository
	if store {
		bolt, err := repository.OpenBoltTransactionRepository(o.dbPath)
		if err != nil {
			return err
		}
		defer bolt.Close()
		repo = bolt
	}

	svc := service.NewCaptureService(repo, cat, parser.NewParser(), o.logger(cmd))
	return fn(cmd.Context(), svc)
}

// readText joins args, or reads stdin when there are none.
func readText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
