package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nitwit45/automation-tm/internal/adapters/dtm"
	tasksrender "github.com/nitwit45/automation-tm/internal/adapters/render/tasks"
	tomlrepo "github.com/nitwit45/automation-tm/internal/adapters/repo/toml"
	chainstore "github.com/nitwit45/automation-tm/internal/adapters/secrets/chain"
	memorystore "github.com/nitwit45/automation-tm/internal/adapters/store/memory"
	"github.com/nitwit45/automation-tm/internal/application"
	"github.com/nitwit45/automation-tm/internal/domain"
	"github.com/nitwit45/automation-tm/internal/ports"
	"github.com/spf13/viper"
)

const defaultProfile = "default"

type app struct {
	service       *application.Service
	tasksRenderer func(date string, list domain.TaskList) string
	baseURL       string
	clientTTL     time.Duration
	now           func() time.Time
}

func wireApp() (*app, error) {
	repo, err := tomlrepo.NewRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire profile repository: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	secretStore, err := chainstore.NewPassFirstWithFileFallback(filepath.Join(homeDir, ".dtm", "secrets"))
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	clientTTL := 30 * time.Minute
	if raw := os.Getenv("DTM_CLIENT_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parse DTM_CLIENT_TTL: %w", err)
		}
		clientTTL = parsed
	}

	clients := memorystore.NewStore(memorystore.WithTTL(clientTTL))

	dial := func(baseURL string) (ports.TaskClient, error) {
		return dtm.NewClient(baseURL)
	}

	return &app{
		service:       application.NewService(repo, secretStore, clients, dial, ports.SystemClock{}),
		tasksRenderer: tasksrender.Render,
		baseURL:       envOrDefault("DTM_BASE_URL", "https://dtm.payable.lk"),
		clientTTL:     clientTTL,
		now:           time.Now,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
