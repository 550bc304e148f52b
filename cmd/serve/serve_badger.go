package serve

import (
	"context"
	"flag"
	"fmt"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/fxstack/cmd/env"
	"github.com/sig-0/fxstack/storage/badger"
)

const defaultBadgerPath = "./fxstack-data"

type serveBadgerCfg struct {
	rootCfg *serveCfg

	path string
}

// newServeBadgerCmd creates the serve badger command
func newServeBadgerCmd(rootCfg *serveCfg) *ffcli.Command {
	cfg := &serveBadgerCfg{
		rootCfg: rootCfg,
	}

	fs := flag.NewFlagSet("badger", flag.ExitOnError)
	cfg.rootCfg.registerFlags(fs)

	fs.StringVar(
		&cfg.path,
		"path",
		defaultBadgerPath,
		"the directory of the Badger datastore",
	)

	return &ffcli.Command{
		Name:       "badger",
		ShortUsage: "serve badger [flags]",
		LongHelp:   "Serves the fxstack backend, using an embedded Badger datastore",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

// exec executes the serve badger command
func (c *serveBadgerCfg) exec(ctx context.Context, _ []string) error {
	logger, err := c.rootCfg.setup()
	if err != nil {
		return err
	}

	store, err := badger.Open(c.path)
	if err != nil {
		return fmt.Errorf("unable to open datastore, %w", err)
	}

	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Error(
				"unable to gracefully close datastore",
				"err", closeErr,
			)
		}
	}()

	logger.Info("opened datastore", "path", c.path)

	return c.rootCfg.run(ctx, logger, store)
}
