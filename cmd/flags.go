package cmd

import (
	"log/slog"
	"os"
)

var (
	cfgFile  string
	debug    bool
	logLevel = new(slog.LevelVar)
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "specify a config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// setupLogger installs a text handler whose level can be changed at runtime.
func setupLogger() {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(h))
}

func debugForced() bool {
	return debug || os.Getenv("DEBUG") == "true"
}
