package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lushplayer/catalogue/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "lush-catalogue",
	Short: "Lush Player content catalogue service",
	Long: `lush-catalogue serves the Lush Player content catalogue over REST:
programme listings per media type and channel, programme details, search,
events, and the live broadcast schedule with mid-stream seek offsets.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of lush-catalogue",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("lush-catalogue v0.1.0")
	},
}

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./config.yaml)")
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}

func initConfig() {
	// Skip config loading for version command
	if len(os.Args) > 1 && os.Args[1] == "version" {
		return
	}

	if configFile != "" {
		config.SetFile(configFile)
	}
	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
