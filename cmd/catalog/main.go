package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/storefront/catalog/cmd/catalog/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Product catalog web service",
		Long:  `A product-catalog web service with server-rendered pages, a JSON product API, and a realtime channel pushing live catalog and chat updates to connected clients.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
