package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KirkDiggler/egg-brawl/internal/errors"
)

// envBindings maps flag names to the environment variables that fill them
// when the flag is not given on the command line
var envBindings = map[string]string{
	"log-level":    "EGG_LOG_LEVEL",
	"port":         "EGG_GRPC_PORT",
	"http-port":    "EGG_HTTP_PORT",
	"redis-addr":   "EGG_REDIS_ADDR",
	"sudden-death": "EGG_SUDDEN_DEATH",
	"delay":        "EGG_BOT_DELAY",
}

func bindEnv(cmd *cobra.Command, bindings map[string]string) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := bindings[f.Name]
		if !ok || f.Changed || bindErr != nil {
			return
		}
		value, ok := os.LookupEnv(key)
		if !ok {
			return
		}
		if err := f.Value.Set(value); err != nil {
			bindErr = errors.InvalidArgumentf("invalid %s=%q: %v", key, value, err)
		}
	})
	return bindErr
}
