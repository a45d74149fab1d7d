package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"promptcraft_server/config"
)

var (
	cfg        config.Config
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "promptcraft",
	Short: "Turn natural-language prompts into UI layouts",
	Long: "PromptCraft generates grid layouts from plain-language descriptions, using an AI model when one is " +
		"configured and a rule-based parser otherwise. Run 'promptcraft serve' for the HTTP studio.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loadDotEnv()
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("cannot load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config-dir", ".", "directory holding config.yaml")
	rootCmd.AddCommand(serveCmd, generateCmd, renderCmd, projectsCmd, registryCmd)
}

// loadDotEnv loads a .env file, if any, before viper reads the environment.
func loadDotEnv() {
	err := godotenv.Load()
	if err != nil {
		// It's common for .env to not exist (e.g., in production)
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		} else {
			log.Println("Info: .env file not found, relying on system environment variables.")
		}
		return
	}
	log.Println("Info: Loaded environment variables from .env file.")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
