package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/grainui/grain/examples/todo"
	"github.com/grainui/grain/internal/config"
	"github.com/grainui/grain/pkg/dom"
	"github.com/grainui/grain/pkg/kv"
	"github.com/grainui/grain/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		addr     string
		database string
		s3Bucket string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the todo demo server",
		Long: `Start the demo application server.

State persists to the configured SQLite database, or to S3 when a
bucket is given. Flags override grain.json.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

			cfg, err := config.Load(".")
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Address = addr
			}
			if database != "" {
				cfg.Database = database
			}
			if s3Bucket != "" {
				cfg.S3.Bucket = s3Bucket
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}

			// Each session gets its own App: effects stay bound to that
			// session's document and goroutine, while state is shared
			// through the kv store.
			mount := func(doc *dom.Document) {
				todo.NewApp(store, logger).Mount(doc)
			}

			srv := server.New(&server.Config{
				Address:       cfg.Address,
				PageTitle:     cfg.Title,
				EnableMetrics: cfg.Metrics,
				Logger:        logger,
			}, mount)

			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides grain.json)")
	cmd.Flags().StringVar(&database, "db", "", "SQLite database path (overrides grain.json)")
	cmd.Flags().StringVar(&s3Bucket, "s3-bucket", "", "persist state to this S3 bucket instead of SQLite")

	return cmd
}

// openStore picks the persistence backend: S3 when a bucket is configured,
// otherwise SQLite.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (kv.Store, error) {
	if cfg.S3.Bucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		logger.Info("using S3 persistence", "bucket", cfg.S3.Bucket)
		return kv.NewS3(s3.NewFromConfig(awsCfg), cfg.S3.Bucket, cfg.S3.Prefix), nil
	}

	logger.Info("using SQLite persistence", "path", cfg.Database)
	return kv.OpenSQLite(cfg.Database)
}
