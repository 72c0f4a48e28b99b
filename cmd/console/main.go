package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mfigueira/aventuria/pkg/game"
)

type ConsoleConfig struct {
	APIBaseURL string
	Timeout    time.Duration
	Modes      game.Modes
}

func main() {
	cfg := &ConsoleConfig{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		Timeout:    90 * time.Second,
		Modes: game.Modes{
			KarmicDice: getEnv("KARMIC_DICE", "true") == "true",
			Permadeath: getEnv("PERMADEATH", "") == "true",
			ManualDice: getEnv("MANUAL_DICE", "") == "true",
			GMAssist:   getEnv("GM_ASSIST", "") == "true",
		},
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	if !testConnection(client, cfg.APIBaseURL) {
		fmt.Fprintf(os.Stderr, "Could not connect to the API at %s.\nTry: docker-compose up -d\n", cfg.APIBaseURL)
		os.Exit(1)
	}

	p := tea.NewProgram(NewConsoleUI(cfg, client),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
