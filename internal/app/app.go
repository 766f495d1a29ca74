// Package app wires configuration, the classification oracle, the store and
// the broker into one initialized application instance.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"categorization-service/internal/broker"
	"categorization-service/internal/categorizer"
	"categorization-service/internal/config"
	"categorization-service/internal/store"
	"categorization-service/internal/store/postgres"
	"categorization-service/pkg/zeroshot"
)

type App struct {
	Config      *config.Config
	Store       store.CategorizationStore
	Broker      *broker.Broker
	Classifier  zeroshot.Classifier
	Categorizer *categorizer.Service
}

// NewApp initializes everything in dependency order. The broker connection
// is opened lazily by ConnectBroker so HTTP-only deployments do not require
// a reachable broker.
func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()
	app := &App{Config: cfg}

	if err := app.initStore(ctx); err != nil {
		return nil, err
	}
	if err := app.initClassifier(ctx); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}
	app.Categorizer = categorizer.New(app.Classifier, cfg.Categorizer.TopK, cfg.Categorizer.MaxInputChars)

	log.Info("application initialization complete")
	return app, nil
}

func (a *App) initStore(ctx context.Context) error {
	st, err := postgres.NewStore(ctx, a.Config.DSN())
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	if err := st.EnsureSchema(ctx); err != nil {
		st.Close()
		return fmt.Errorf("init schema: %w", err)
	}
	a.Store = st
	return nil
}

// initClassifier selects the oracle provider from config. The model handle
// is created once here and shared by every call, HTTP and queue alike.
func (a *App) initClassifier(ctx context.Context) error {
	cfg := a.Config
	timeout := time.Duration(cfg.Oracle.TimeoutSeconds) * time.Second

	switch cfg.Oracle.Provider {
	case "huggingface", "":
		a.Classifier = zeroshot.NewHFClassifier(cfg.Oracle.Endpoint, cfg.Oracle.Model, cfg.Oracle.APIToken, timeout)
		log.Infof("initialized huggingface classifier (model: %s)", cfg.Oracle.Model)
	case "openai":
		if cfg.Oracle.OpenaiAPIKey == "" {
			return fmt.Errorf("OpenAI API key is required but not set (oracle.openai_api_key / OPENAI_API_KEY)")
		}
		client := openai.NewClient(cfg.Oracle.OpenaiAPIKey)
		a.Classifier = zeroshot.NewLLMClassifier(client, cfg.Oracle.Model)
		log.Infof("initialized openai classifier (model: %s)", cfg.Oracle.Model)
	case "gemini":
		gc, err := zeroshot.NewGeminiClassifier(ctx, cfg.Oracle.GoogleAPIKey, cfg.Oracle.Model)
		if err != nil {
			return fmt.Errorf("init gemini classifier: %w", err)
		}
		a.Classifier = gc
		log.Infof("initialized gemini classifier (model: %s)", cfg.Oracle.Model)
	default:
		return fmt.Errorf("unknown oracle provider: %q", cfg.Oracle.Provider)
	}
	return nil
}

// ConnectBroker dials the broker and declares the topology. Idempotent per
// App instance.
func (a *App) ConnectBroker() error {
	if a.Broker != nil {
		return nil
	}
	cfg := a.Config
	topology := broker.TopologyFor(cfg.Broker.Exchange, cfg.Broker.ConsumeQueue, cfg.Broker.PublishQueue)
	b, err := broker.Connect(cfg.BrokerURL(), topology)
	if err != nil {
		return fmt.Errorf("init broker: %w", err)
	}
	a.Broker = b
	return nil
}

func (a *App) cleanupPartialInit() {
	if a.Store != nil {
		a.Store.Close()
	}
}

// Close releases broker and database resources.
func (a *App) Close() {
	if a.Broker != nil {
		a.Broker.Close()
	}
	if a.Store != nil {
		a.Store.Close()
	}
}
