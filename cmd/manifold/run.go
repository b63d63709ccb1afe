package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sylvanmoss/manifold/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a propagation simulation",
	Long: `Drives the engine for a fixed number of steps with the selected stimulus
source and prints a run report with attractors and glyphs.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFromFlags(cmd)
		opts.Steps, _ = cmd.Flags().GetInt("steps")
		opts.Stimulus, _ = cmd.Flags().GetString("stimulus")

		if err := cli.RunSimulation(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func optionsFromFlags(cmd *cobra.Command) cli.RunOptions {
	opts := cli.RunOptions{}
	opts.ConfigPath, _ = cmd.Flags().GetString("config")
	opts.TopologyPath, _ = cmd.Flags().GetString("topology")
	opts.Debug, _ = cmd.Flags().GetBool("debug")
	opts.StoreKind, _ = cmd.Flags().GetString("store")
	opts.RedisAddr, _ = cmd.Flags().GetString("redis-addr")
	opts.SQLitePath, _ = cmd.Flags().GetString("sqlite-path")
	return opts
}

func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("store", "memory", "Glyph store backend (memory, redis, sqlite)")
	cmd.Flags().String("redis-addr", "", "Redis address for --store=redis")
	cmd.Flags().String("sqlite-path", "", "Database path for --store=sqlite")
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int("steps", 100, "Number of propagation steps to apply")
	runCmd.Flags().String("stimulus", "none", "Stimulus source: none, system, or text to embed")
	addStoreFlags(runCmd)

	rootCmd.Run = runCmd.Run
}
