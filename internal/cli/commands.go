package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/eshaffer321/rankbudget/internal/application/service"
	"github.com/eshaffer321/rankbudget/internal/infrastructure/config"
	"github.com/eshaffer321/rankbudget/internal/infrastructure/logging"
	"github.com/eshaffer321/rankbudget/internal/infrastructure/storage"
)

// IO holds the streams a command reads from and writes to.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// LoadConfig reads path when given, otherwise config.yaml with an
// environment fallback.
func LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadOrEnv(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// commandLogger logs to stderr so stdout stays clean for results.
func commandLogger(cfg *config.Config, verbose bool, streams IO) *slog.Logger {
	loggingCfg := cfg.Observability.Logging
	if verbose {
		loggingCfg.Level = "debug"
	}
	return logging.NewLoggerTo(streams.Stderr, loggingCfg).With(logging.SystemKey, "optimizer")
}

// newService builds a service, opening the database only when save is set.
// The returned func releases it.
func newService(cfg *config.Config, save bool, logger *slog.Logger) (*service.OptimizeService, func(), error) {
	runCfg := *cfg
	runCfg.Optimizer.Persist = save

	if !save {
		return service.NewOptimizeService(&runCfg, nil, nil, nil, logger), func() {}, nil
	}

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return service.NewOptimizeService(&runCfg, store, nil, nil, logger), func() { _ = store.Close() }, nil
}

// resolveBudget applies the configured default to a negative flag value.
func resolveBudget(name string, flagValue, configured float64) (float64, error) {
	if flagValue >= 0 {
		return flagValue, nil
	}
	if configured > 0 {
		return configured, nil
	}
	return 0, fmt.Errorf("%s budget is required (-%s-budget or optimizer.%s_budget)", name, name, name)
}

func optimizeRequest(cfg *config.Config, flags *OptimizeFlags, streams IO) (service.OptimizeRequest, error) {
	pc, err := resolveBudget("pc", flags.PCBudget, cfg.Optimizer.PCBudget)
	if err != nil {
		return service.OptimizeRequest{}, err
	}
	mobile, err := resolveBudget("mobile", flags.MobileBudget, cfg.Optimizer.MobileBudget)
	if err != nil {
		return service.OptimizeRequest{}, err
	}
	keywords, err := LoadKeywords(flags.Input, streams.Stdin)
	if err != nil {
		return service.OptimizeRequest{}, err
	}
	return service.OptimizeRequest{
		PCBudget:     pc,
		MobileBudget: mobile,
		Objective:    flags.Objective,
		Keywords:     keywords,
	}, nil
}

// RunOptimize runs Greedy Downgrade over an input file.
func RunOptimize(ctx context.Context, cfg *config.Config, flags *OptimizeFlags, streams IO) error {
	req, err := optimizeRequest(cfg, flags, streams)
	if err != nil {
		return err
	}

	svc, closeFn, err := newService(cfg, flags.Save, commandLogger(cfg, flags.Verbose, streams))
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := svc.Optimize(ctx, req)
	if err != nil {
		return err
	}

	if flags.Format == FormatJSON {
		return PrintJSON(streams.Stdout, result)
	}
	PrintOptimizeResult(streams.Stdout, result)
	return nil
}

// RunUniform picks one rank per channel over an input file.
func RunUniform(ctx context.Context, cfg *config.Config, flags *OptimizeFlags, streams IO) error {
	req, err := optimizeRequest(cfg, flags, streams)
	if err != nil {
		return err
	}

	svc, closeFn, err := newService(cfg, flags.Save, commandLogger(cfg, flags.Verbose, streams))
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := svc.Uniform(ctx, req)
	if err != nil {
		return err
	}

	if flags.Format == FormatJSON {
		return PrintJSON(streams.Stdout, result)
	}
	PrintUniformResult(streams.Stdout, result)
	return nil
}

// RunAnalyze reports every keyword at fixed ranks.
func RunAnalyze(ctx context.Context, cfg *config.Config, flags *AnalyzeFlags, streams IO) error {
	keywords, err := LoadKeywords(flags.Input, streams.Stdin)
	if err != nil {
		return err
	}

	svc, closeFn, err := newService(cfg, flags.Save, commandLogger(cfg, flags.Verbose, streams))
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := svc.Analyze(ctx, service.AnalyzeRequest{
		PCRank:     flags.PCRank,
		MobileRank: flags.MobileRank,
		Keywords:   keywords,
	})
	if err != nil {
		return err
	}

	if flags.Format == FormatJSON {
		return PrintJSON(streams.Stdout, result)
	}
	PrintAnalysis(streams.Stdout, result)
	return nil
}
