package serve

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/sync/errgroup"

	"github.com/sig-0/fxstack/cmd/env"
	"github.com/sig-0/fxstack/ingest"
	"github.com/sig-0/fxstack/resolver"
	"github.com/sig-0/fxstack/server"
	"github.com/sig-0/fxstack/server/config"
	"github.com/sig-0/fxstack/storage"
)

// serveCfg wraps the serve configuration
type serveCfg struct {
	config *config.Config

	configPath    string
	listenAddress string
	logLevel      string
}

// NewServeCmd creates the serve subcommand
func NewServeCmd() *ffcli.Command {
	cfg := &serveCfg{
		config: config.DefaultConfig(),
	}

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfg.registerFlags(fs)

	cmd := &ffcli.Command{
		Name:       "serve",
		ShortUsage: "serve <subcommand> [flags]",
		LongHelp:   "Serves the fxstack rate API, and runs the rate ingestion",
		FlagSet:    fs,
		Exec: func(_ context.Context, _ []string) error {
			return flag.ErrHelp
		},
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}

	cmd.Subcommands = []*ffcli.Command{
		newServeSQLCmd(cfg),
		newServeMemoryCmd(cfg),
		newServeBadgerCmd(cfg),
	}

	return cmd
}

func (c *serveCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.listenAddress,
		"listen",
		"",
		fmt.Sprintf("the IP:PORT URL for the server, overrides the config (default %s)", config.DefaultListenAddress),
	)

	fs.StringVar(
		&c.configPath,
		"config",
		"",
		"the path to the server TOML configuration, if any",
	)

	fs.StringVar(
		&c.logLevel,
		"log-level",
		"info",
		"the log level (debug, info, warn, error)",
	)
}

// loadConfig reads the server configuration file, if any,
// and applies the flag overrides
func (c *serveCfg) loadConfig() error {
	if c.configPath != "" {
		serverCfg, err := config.Read(c.configPath)
		if err != nil {
			return fmt.Errorf("unable to read server config, %w", err)
		}

		c.config = serverCfg
	}

	if c.listenAddress != "" {
		c.config.ListenAddress = c.listenAddress
	}

	if err := config.ValidateConfig(c.config); err != nil {
		return fmt.Errorf("invalid server config, %w", err)
	}

	return nil
}

// newLogger creates the stdout logger, at the configured level
func (c *serveCfg) newLogger() (*slog.Logger, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(c.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q, %w", c.logLevel, err)
	}

	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})), nil
}

// setup loads the configuration and creates the logger. It also loads
// the .env file, if any, so it must run before reading env variables
func (c *serveCfg) setup() (*slog.Logger, error) {
	if err := c.loadConfig(); err != nil {
		return nil, err
	}

	logger, err := c.newLogger()
	if err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil {
		logger.Warn("unable to load .env file")
	}

	return logger, nil
}

// run wires the resolver stack, the ingestion and the server on top of
// the given storage, and runs them until a termination signal [BLOCKING]
func (c *serveCfg) run(ctx context.Context, logger *slog.Logger, store storage.Storage) error {
	registry, err := buildRegistry(c.config.Providers, store, logger)
	if err != nil {
		return fmt.Errorf("unable to build provider stack, %w", err)
	}

	fetchers, err := buildFetchers(c.config.Fetchers, logger)
	if err != nil {
		return fmt.Errorf("unable to build fetchers, %w", err)
	}

	logger.Info(
		"provider stack ready",
		"providers", registry.IDs(),
	)

	// Create the ingestion service
	orchestrator := ingest.New(store, ingest.WithLogger(logger))
	for _, f := range fetchers {
		if err = orchestrator.Register(f); err != nil {
			return fmt.Errorf("unable to register fetcher: %w", err)
		}
	}

	// Create the server instance
	s, err := server.New(
		resolver.New(resolver.Static(registry), resolver.WithLogger(logger)),
		store,
		server.WithLogger(logger),
		server.WithConfig(c.config),
	)
	if err != nil {
		return fmt.Errorf("unable to create server, %w", err)
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelFn()

	group, gCtx := errgroup.WithContext(runCtx)

	// Start the HTTP server
	group.Go(func() error {
		return s.Serve(gCtx)
	})

	// Start the ingestion service
	group.Go(func() error {
		return orchestrator.Start(gCtx)
	})

	return group.Wait()
}
