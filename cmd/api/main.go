package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/rrrconstruction/portfolio/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "portfolio",
		Short: "RRR Construction portfolio server",
		Long:  `Portfolio website for RRR Construction with a small admin area for projects, testimonials and contact messages.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewAdminCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
