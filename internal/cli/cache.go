package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowschem/pkg/cache"
	fserr "github.com/matzehuels/flowschem/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. Without flags it
// clears the local file cache; --redis-url or --mongo-uri clear a shared one.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var redisURL, mongoURI string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached layouts and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := clearTarget(redisURL, mongoURI)
			if err != nil {
				return err
			}
			if cfg.Backend == cache.BackendFile {
				if _, err := os.Stat(cfg.Dir); os.IsNotExist(err) {
					printInfo("Cache is empty")
					return nil
				}
			}

			store, err := cache.Open(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("open %s cache: %w", cfg.Backend, err)
			}
			defer store.Close()

			clearer, ok := store.(cache.Clearer)
			if !ok {
				return fserr.New(fserr.ErrCodeUnsupported, "%s cache cannot be cleared", cfg.Backend)
			}
			count, err := clearer.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear %s cache: %w", cfg.Backend, err)
			}

			printSuccess("Cleared %d cached entries", count)
			if cfg.Backend == cache.BackendFile {
				printDetail("Directory: %s", cfg.Dir)
			} else {
				printDetail("Backend: %s", cfg.Backend)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&redisURL, "redis-url", os.Getenv(envPrefix+"_REDIS_URL"), "clear a Redis cache instead of the local one")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", os.Getenv(envPrefix+"_MONGO_URI"), "clear a MongoDB cache instead of the local one")

	return cmd
}

// clearTarget picks the cache "cache clear" operates on.
func clearTarget(redisURL, mongoURI string) (cache.Config, error) {
	switch {
	case redisURL != "" && mongoURI != "":
		return cache.Config{}, fserr.New(fserr.ErrCodeInvalidInput, "set either a Redis URL or a Mongo URI, not both")
	case redisURL != "":
		if err := fserr.ValidateURL(redisURL); err != nil {
			return cache.Config{}, err
		}
		return cache.Config{Backend: cache.BackendRedis, RedisURL: redisURL}, nil
	case mongoURI != "":
		if err := fserr.ValidateURL(mongoURI); err != nil {
			return cache.Config{}, err
		}
		return cache.Config{Backend: cache.BackendMongo, MongoURI: mongoURI}, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.Config{}, fmt.Errorf("get cache dir: %w", err)
	}
	return cache.Config{Backend: cache.BackendFile, Dir: dir}, nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
