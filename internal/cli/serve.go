package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/flowschem/internal/api"
	"github.com/matzehuels/flowschem/pkg/cache"
	fserr "github.com/matzehuels/flowschem/pkg/errors"
	"github.com/matzehuels/flowschem/pkg/pipeline"
)

// serveConfig is the resolved configuration of the serve command.
type serveConfig struct {
	Addr        string
	Cache       cache.Config
	CachePrefix string
	CORSOrigins []string
	Timeout     time.Duration
	MaxBody     int64
}

// serveCommand creates the serve command. Every flag can also be set from
// the environment (FLOWSCHEM_REDIS_URL for --redis-url) or from a config
// file given with --config.
func (c *CLI) serveCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout pipeline over HTTP",
		Long: `Serve the layout pipeline over HTTP.

Layouts and artifacts are cached in memory by default. Set --redis-url or
--mongo-uri to share a cache between instances; --cache=file uses the
local cache directory.

Deployments sharing one Redis or MongoDB cache can keep their entries
apart with --cache-prefix.

Flags can be set from the environment with the FLOWSCHEM_ prefix
(FLOWSCHEM_ADDR, FLOWSCHEM_REDIS_URL, FLOWSCHEM_CACHE_PREFIX, ...) or from a
TOML, YAML or JSON file passed with --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newServeViper(cmd.Flags(), configFile)
			if err != nil {
				return err
			}
			cfg, err := loadServeConfig(v)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "config file (toml, yaml or json)")
	cmd.Flags().String("addr", api.DefaultAddr, "listen address")
	cmd.Flags().String("cache", cache.BackendMemory, "cache backend: memory, file, redis, mongo, none")
	cmd.Flags().String("cache-dir", "", "directory of the file cache (default: XDG cache dir)")
	cmd.Flags().String("redis-url", "", "Redis URL; selects the redis backend")
	cmd.Flags().String("mongo-uri", "", "MongoDB URI; selects the mongo backend")
	cmd.Flags().String("mongo-database", cache.DefaultMongoDatabase, "MongoDB database")
	cmd.Flags().Bool("compress", false, "zstd-compress cache entries")
	cmd.Flags().String("cache-prefix", "", "key prefix for a Redis or MongoDB cache shared between deployments")
	cmd.Flags().StringSlice("cors-origin", nil, "allowed CORS origin (repeatable)")
	cmd.Flags().Duration("timeout", api.DefaultTimeout, "per-request timeout")
	cmd.Flags().Int64("max-body", api.DefaultMaxBodyBytes, "maximum request body in bytes")

	return cmd
}

// newServeViper layers flags over the environment over the config file.
func newServeViper(flags *pflag.FlagSet, configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}
	if configFile == "" {
		return v, nil
	}
	path, err := expandPath(configFile)
	if err != nil {
		return nil, err
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fserr.Wrap(fserr.ErrCodeInvalidInput, err, "read config %s", configFile)
	}
	return v, nil
}

// loadServeConfig resolves the cache backend and validates the settings.
// A Redis URL or Mongo URI selects its backend over the cache setting.
func loadServeConfig(v *viper.Viper) (serveConfig, error) {
	cfg := serveConfig{
		Addr:        v.GetString("addr"),
		CachePrefix: v.GetString("cache-prefix"),
		CORSOrigins: v.GetStringSlice("cors-origin"),
		Timeout:     v.GetDuration("timeout"),
		MaxBody:     v.GetInt64("max-body"),
		Cache: cache.Config{
			Backend:       v.GetString("cache"),
			Dir:           v.GetString("cache-dir"),
			RedisURL:      v.GetString("redis-url"),
			MongoURI:      v.GetString("mongo-uri"),
			MongoDatabase: v.GetString("mongo-database"),
			Compress:      v.GetBool("compress"),
		},
	}

	switch {
	case cfg.Cache.RedisURL != "" && cfg.Cache.MongoURI != "":
		return serveConfig{}, fserr.New(fserr.ErrCodeInvalidInput, "set either a Redis URL or a Mongo URI, not both")
	case cfg.Cache.RedisURL != "":
		cfg.Cache.Backend = cache.BackendRedis
	case cfg.Cache.MongoURI != "":
		cfg.Cache.Backend = cache.BackendMongo
	}

	switch cfg.Cache.Backend {
	case cache.BackendRedis:
		if err := fserr.ValidateURL(cfg.Cache.RedisURL); err != nil {
			return serveConfig{}, err
		}
	case cache.BackendMongo:
		if err := fserr.ValidateURL(cfg.Cache.MongoURI); err != nil {
			return serveConfig{}, err
		}
	case cache.BackendFile:
		dir, err := expandPath(cfg.Cache.Dir)
		if err != nil {
			return serveConfig{}, err
		}
		cfg.Cache.Dir = dir
	case cache.BackendMemory, cache.BackendNone:
	default:
		return serveConfig{}, fserr.New(fserr.ErrCodeInvalidInput, "unknown cache backend %q", cfg.Cache.Backend)
	}
	if cfg.Addr == "" {
		return serveConfig{}, fserr.New(fserr.ErrCodeInvalidInput, "listen address cannot be empty")
	}
	return cfg, nil
}

func (c *CLI) runServe(ctx context.Context, cfg serveConfig) error {
	store, err := cache.Open(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("open %s cache: %w", cfg.Cache.Backend, err)
	}
	runner := pipeline.NewRunner(store, cacheKeyer(cfg.CachePrefix), c.Logger)
	defer runner.Close()

	srv := api.New(runner, api.Config{
		Addr:           cfg.Addr,
		MaxBodyBytes:   cfg.MaxBody,
		Timeout:        cfg.Timeout,
		AllowedOrigins: cfg.CORSOrigins,
		Logger:         c.Logger,
	})

	printInfo("Serving %s", appName)
	printKeyValue("address", cfg.Addr)
	printKeyValue("cache", cacheLabel(cfg.Cache))
	if cfg.CachePrefix != "" {
		printKeyValue("prefix", cfg.CachePrefix)
	}
	if len(cfg.CORSOrigins) > 0 {
		printKeyValue("cors", strings.Join(cfg.CORSOrigins, ", "))
	}

	if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// cacheKeyer scopes cache keys by prefix, so deployments sharing one
// Redis or MongoDB cache do not read each other's entries.
func cacheKeyer(prefix string) cache.Keyer {
	if prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, prefix)
}

func cacheLabel(cfg cache.Config) string {
	label := cfg.Backend
	if cfg.Compress {
		label += " (zstd)"
	}
	return label
}
