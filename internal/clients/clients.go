// Package clients provides centralized client initialization with dependency injection.
//
// Commands and the API server build their external service clients here so
// setup is not duplicated.
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	clients, err := clients.NewClients(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// clients.Categorizer is nil when no LLM API key is configured.
package clients

import (
	"fmt"
	"net/url"

	"github.com/eshaffer321/rankbudget/internal/domain/categorizer"
	"github.com/eshaffer321/rankbudget/internal/infrastructure/config"
	"github.com/eshaffer321/rankbudget/internal/infrastructure/llm"
)

// Clients holds all initialized service clients
type Clients struct {
	Categorizer *categorizer.Categorizer
	Cache       *categorizer.MemoryCache
}

// NewClients initializes all service clients from configuration.
// A missing LLM API key is not an error; categorization is simply disabled.
func NewClients(cfg *config.Config) (*Clients, error) {
	c := &Clients{}
	if !cfg.LLM.Enabled() {
		return c, nil
	}

	if cfg.LLM.BaseURL != "" {
		u, err := url.Parse(cfg.LLM.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid llm base_url %q", cfg.LLM.BaseURL)
		}
	}

	model := cfg.LLM.Model
	if model == "" {
		model = categorizer.DefaultModel
	}

	client := llm.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Timeout)
	c.Cache = categorizer.NewMemoryCache()
	c.Categorizer = categorizer.NewCategorizer(client, c.Cache, model)

	return c, nil
}
