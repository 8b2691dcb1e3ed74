package main

import (
	"os"

	"github.com/ethanbaker/transcript-assistant/pkg/chat"
	"github.com/ethanbaker/transcript-assistant/pkg/sdk"
	"github.com/ethanbaker/transcript-assistant/pkg/utils"
	"github.com/spf13/cobra"
)

// app holds what every subcommand needs once flags and config are resolved
type app struct {
	settings *utils.Settings
	client   *sdk.Client
}

// querier returns the chat querier for the configured mode
func (a *app) querier() (chat.Querier, error) {
	mode, err := chat.ParseMode(a.settings.ChatMode)
	if err != nil {
		return nil, err
	}
	return chat.NewQuerier(mode, a.client)
}

func newRootCommand() *cobra.Command {
	a := &app{}

	var envFile, backendURL, apiKey, mode string

	cmd := &cobra.Command{
		Use:   "transcript-assistant",
		Short: "Search, ask about and manage meeting transcripts",
		Long: `transcript-assistant talks to the transcript backend from the terminal.

It can upload recordings for transcription, list, show and delete transcripts,
and ask questions about them, either one at a time or in an interactive session.`,
		SilenceUsage: true,
	}

	defaultEnv := ".env"
	if os.Getenv("ENV_FILE") != "" {
		defaultEnv = os.Getenv("ENV_FILE")
	}

	cmd.PersistentFlags().StringVar(&envFile, "env", defaultEnv, "Env file to load configuration from")
	cmd.PersistentFlags().StringVar(&backendURL, "backend", "", "Backend origin (overrides BACKEND_URL)")
	cmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Backend API key (overrides BACKEND_API_KEY)")
	cmd.PersistentFlags().StringVar(&mode, "mode", "", "Chat mode, search or ask (overrides CHAT_MODE)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg := utils.NewConfigFromEnv(envFile)

		// Flags win over the environment
		if backendURL != "" {
			cfg.Set("BACKEND_URL", backendURL)
		}
		if apiKey != "" {
			cfg.Set("BACKEND_API_KEY", apiKey)
		}
		if mode != "" {
			cfg.Set("CHAT_MODE", mode)
		}

		settings, err := utils.LoadSettings(cfg)
		if err != nil {
			return err
		}

		a.settings = settings
		a.client = settings.NewClient()
		return nil
	}

	// Add subcommands
	cmd.AddCommand(newAskCommand(a))
	cmd.AddCommand(newListCommand(a))
	cmd.AddCommand(newShowCommand(a))
	cmd.AddCommand(newDeleteCommand(a))
	cmd.AddCommand(newUploadCommand(a))

	return cmd
}
