package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type ConsoleConfig struct {
	APIBaseURL string
	Timeout    time.Duration
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func main() {
	cfg := &ConsoleConfig{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		Timeout:    30 * time.Second,
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	if !testConnection(client, cfg.APIBaseURL) {
		fmt.Fprintf(os.Stderr, "Could not connect to API. Please ensure the API is running.\nTry: docker-compose up -d\n")
		os.Exit(1)
	}

	orderedNames, experienceMap, err := listExperiences(client, cfg.APIBaseURL)
	if err != nil || len(orderedNames) == 0 {
		fmt.Fprintf(os.Stderr, "Failed to list experiences: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Available Experiences:")
	for i := range orderedNames {
		fmt.Printf("  %d - %s (%s)\n", i+1, orderedNames[i], experienceMap[orderedNames[i]])
	}
	fmt.Print("\nSelect an experience by number: ")

	var choice int
	if _, err := fmt.Scanf("%d", &choice); err != nil || choice < 1 || choice > len(orderedNames) {
		fmt.Fprintf(os.Stderr, "Invalid selection\n")
		os.Exit(1)
	}

	experienceFile := experienceMap[orderedNames[choice-1]]

	exp, err := getExperience(client, cfg.APIBaseURL, experienceFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load experience: %v\n", err)
		os.Exit(1)
	}

	s, err := createSession(client, cfg.APIBaseURL, experienceFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create session: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(NewConsoleUI(cfg, client, s, exp),
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
