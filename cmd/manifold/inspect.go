package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sylvanmoss/manifold/internal/cli"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the configured topology",
	Long:  `Builds the engine from the configuration and topology documents and prints the graph as JSON or a Mermaid diagram.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFromFlags(cmd)
		mermaid, _ := cmd.Flags().GetBool("mermaid")

		if err := cli.Inspect(opts, mermaid); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("mermaid", false, "Emit a Mermaid diagram instead of JSON")
}
