// Command art0 plays, renders and serves the art0 "8 disks" zone animation.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/art0/internal/config"
	xlog "github.com/phanxgames/art0/internal/log"
)

var version = "dev"

type rootFlags struct {
	configPath string
	logLevel   string
	console    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "art0",
		Short:         "Zone-by-zone image fade animation",
		Long:          "art0 cycles eight colour zones through randomly chosen images with eased cross-fades.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "path to config file (YAML)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.BoolVar(&flags.console, "console", false, "human-readable log output")

	root.AddCommand(
		newPlayCmd(flags),
		newRenderCmd(flags),
		newServeCmd(flags),
		newStylesCmd(flags),
	)
	return root
}

// load reads the configuration and reconfigures logging from it. The
// --log-level flag wins over the file.
func (f *rootFlags) load() (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}
	level := cfg.LogLevel
	if f.logLevel != "" {
		level = f.logLevel
	}
	xlog.Configure(xlog.Config{Level: level, Service: "art0", Console: f.console})
	logger := xlog.WithComponent("cli")
	logger.Debug().
		Str("event", "config.loaded").
		Str("path", f.configPath).
		Msg("configuration loaded")
	return cfg, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "art0:", err)
		os.Exit(1)
	}
}
