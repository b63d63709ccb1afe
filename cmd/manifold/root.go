package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "manifold",
	Short: "Manifold is a latent-state propagation and convergence engine",
	Long: `Manifold propagates continuous state over a weighted node graph,
tracks tension and attractors, and compresses converged episodes into glyphs.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the engine configuration YAML")
	rootCmd.PersistentFlags().String("topology", "", "Path to the topology YAML (defaults to a built-in demo ring)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
