package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scenegraph/pkg/cache"
	"github.com/matzehuels/scenegraph/pkg/observability"
	"github.com/matzehuels/scenegraph/pkg/pipeline"
	"github.com/matzehuels/scenegraph/pkg/server"
	"github.com/matzehuels/scenegraph/pkg/storage"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, mongoURI, redisAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes scene computation and storage over HTTP.

Scenes are kept in memory unless a MongoDB URI is configured. Rendered
artifacts are cached in Redis when an address is configured, otherwise in
the local cache directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.config.Server.Addr = addr
			}
			if cmd.Flags().Changed("mongo-uri") {
				c.config.Server.MongoURI = mongoURI
			}
			if cmd.Flags().Changed("redis-addr") {
				c.config.Cache.RedisAddr = redisAddr
			}
			return c.runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection URI (default: in-memory storage)")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "Redis address for the artifact cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context) error {
	logger := loggerFromContext(ctx)

	repo, err := c.newRepository(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			logger.Warn("close repository", "err", err)
		}
	}()

	ch, err := c.newSharedCache(ctx)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(cache.Instrument(ch, "artifact", observability.Cache()), cache.Scoped("api:"), logger)
	runner.TTL = c.config.Cache.TTL.Duration
	defer runner.Close()

	srv, err := server.New(server.Config{
		Repository: repo,
		Runner:     runner,
		Logger:     logger,
		SceneHooks: observability.Scene(),
		HTTPHooks:  observability.HTTP(),
	})
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx, c.config.Server.Addr)
}

func (c *CLI) newRepository(ctx context.Context) (storage.Repository, error) {
	if c.config.Server.MongoURI == "" {
		printWarning("No MongoDB URI configured; scenes are kept in memory")
		return storage.NewMemoryRepository(), nil
	}
	return storage.NewMongoRepository(ctx, storage.MongoConfig{
		URI:      c.config.Server.MongoURI,
		Database: c.config.Server.MongoDatabase,
	}, c.Logger)
}
