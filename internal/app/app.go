package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"infoflow/internal/config"
	"infoflow/internal/domain"
	"infoflow/internal/infrastructure/storage"
	"infoflow/internal/logging"
	"infoflow/internal/ports"
	"infoflow/internal/server"
	"infoflow/internal/tools"
	"infoflow/internal/usecase"
)

// Application wires config to stores, engine components and the HTTP
// adapter, and owns their lifecycle: constructed at startup, torn down at
// shutdown.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	db     *sql.DB
	http   *http.Server
}

// Stores groups the persistence ports the engine runs on.
type Stores struct {
	Profiles  ports.ProfileStore
	Decisions ports.DecisionStore
	Topics    ports.TopicStore
}

// New opens storage, builds the engine and prepares the HTTP server.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	if dir := filepath.Dir(cfg.Database.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if err := storage.InitSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	stores := Stores{
		Profiles:  storage.NewProfileRepository(db),
		Decisions: storage.NewDecisionRepository(db),
		Topics:    storage.NewTopicRepository(db),
	}
	registry := BuildRegistry(cfg, stores, baseLogger)
	srv := server.New(registry, baseLogger.With("component", "server"))

	return &Application{
		cfg:    cfg,
		logger: baseLogger,
		db:     db,
		http: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// BuildRegistry assembles the engine components on the given stores and
// registers the tool surface. It is reusable by alternative transports and
// by tests.
func BuildRegistry(cfg config.Config, stores Stores, baseLogger *slog.Logger) *tools.Registry {
	scorer := usecase.NewScorer(tierPolicy(cfg.Scoring), baseLogger.With("component", "scorer"))
	deps := tools.Deps{
		Profiles:    usecase.NewProfiles(stores.Profiles, baseLogger.With("component", "profiles")),
		Scorer:      scorer,
		Synthesizer: usecase.NewSynthesizer(cfg.Synthesis.ContradictionGap, baseLogger.With("component", "synthesizer")),
		Decisions:   usecase.NewDecisionEngine(stores.Decisions, stores.Profiles, decisionPolicy(cfg.Decision), baseLogger.With("component", "decisions")),
		Monitor:     usecase.NewTopicMonitor(stores.Topics, stores.Profiles, scorer, baseLogger.With("component", "monitor")),
	}

	registry := tools.NewRegistry()
	tools.RegisterAll(registry, deps)
	return registry
}

// Run serves HTTP until the context is canceled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer a.db.Close()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server started", "address", a.http.Addr)
		errCh <- a.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.http.Shutdown(shutdownCtx)
	}
}

func tierPolicy(cfg config.ScoringConfig) usecase.TierPolicy {
	return usecase.TierPolicy{
		Critical: cfg.CriticalAt,
		High:     cfg.HighAt,
		Medium:   cfg.MediumAt,
		Low:      cfg.LowAt,
	}
}

func decisionPolicy(cfg config.DecisionConfig) usecase.DecisionPolicy {
	return usecase.DecisionPolicy{
		Styles: map[domain.DecisionStyle]usecase.StyleWeights{
			domain.StyleAnalytical:    {Objective: cfg.Analytical.Objective, Subjective: cfg.Analytical.Subjective},
			domain.StyleIntuitive:     {Objective: cfg.Intuitive.Objective, Subjective: cfg.Intuitive.Subjective},
			domain.StyleCollaborative: {Objective: cfg.Collaborative.Objective, Subjective: cfg.Collaborative.Subjective},
		},
		RiskCeilings: map[domain.RiskTolerance]float64{
			domain.RiskLow:    ceiling(cfg.RiskCeilings.Low),
			domain.RiskMedium: ceiling(cfg.RiskCeilings.Medium),
			domain.RiskHigh:   ceiling(cfg.RiskCeilings.High),
		},
		RiskAttribute: cfg.RiskAttribute,
	}
}

// ceiling treats a zero config value as "no ceiling".
func ceiling(value float64) float64 {
	if value <= 0 {
		return math.Inf(1)
	}
	return value
}
