package main

import (
	"log"
	"os"

	"github.com/ethanbaker/transcript-assistant/internal/web"
	"github.com/ethanbaker/transcript-assistant/pkg/utils"
)

// Start the web front-end
func main() {
	// Find env file
	envFile := ".env"
	if os.Getenv("ENV_FILE") != "" {
		envFile = os.Getenv("ENV_FILE")
	}

	// Load global config
	cfg := utils.NewConfigFromEnv(envFile)

	settings, err := utils.LoadSettings(cfg)
	if err != nil {
		log.Fatal("[WEB-MAIN]: Invalid configuration: ", err)
	}

	// Start
	web.Start(settings)
}
