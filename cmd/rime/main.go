package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/rime/pkg/config"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "rime",
		Short: "rime - instance pooling for real-time scene runtimes",
		Long: `rime recycles scene objects instead of constructing and destroying them
every tick. The run command drives a scripted arena on the host update loop
and reports what the pools did.`,
		SilenceUsage: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rime v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	var configFile string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configFile)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (reclamation %s x%d, %d ticks/s)\n",
				configFile, cfg.Pools.Reclamation.Mode, cfg.Pools.Reclamation.DrainPerTick, cfg.Loop.TickRate)
			return nil
		},
	}
	validateCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to configuration YAML file (required)")
	_ = validateCmd.MarkFlagRequired("config")
	root.AddCommand(validateCmd)

	root.AddCommand(newRunCommand())
	return root
}
