package main

import (
	"fmt"

	"github.com/spf13/cobra"

	manifold "github.com/sylvanmoss/manifold"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of manifold",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("manifold version %s\n", manifold.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
