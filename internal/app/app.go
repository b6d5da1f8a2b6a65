// Package app wires configuration into the components a command needs.
package app

import (
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"nadcal/internal/config"
	"nadcal/internal/extract"
	"nadcal/internal/logging"
	"nadcal/internal/metrics"
	"nadcal/internal/ner"
	"nadcal/internal/session"
	"nadcal/internal/store"
	"nadcal/internal/timeline"
	"nadcal/internal/validate"
)

type App struct {
	Config    config.Config
	Workspace string
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	Extractor *extract.Extractor
	Validator *validate.Validator
	Store     *store.Store

	loc *time.Location
}

// Option adjusts an App before its components are built.
type Option func(*App)

// WithLogger replaces the logger built from the log.* settings.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) { a.Logger = l }
}

func New(cfg config.Config, workspaceRoot string, opts ...Option) (*App, error) {
	a := &App{Config: cfg, Workspace: workspaceRoot}
	for _, opt := range opts {
		opt(a)
	}

	if a.Logger == nil {
		logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return nil, err
		}
		a.Logger = logger
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	a.loc = loc
	a.Metrics = metrics.New()

	recognizer, err := a.recognizer()
	if err != nil {
		return nil, err
	}

	resolver := timeline.NewResolver(
		timeline.WithYearRules(cfg.YearRules()),
		timeline.WithLogger(a.Logger),
	)
	a.Extractor = extract.New(
		extract.WithLogger(a.Logger),
		extract.WithMetrics(a.Metrics),
		extract.WithDateResolver(resolver),
		extract.WithRecognizer(recognizer),
		extract.WithClock(a.Now),
	)
	a.Validator = validate.New(cfg.ValidationDefaults())

	backend, err := store.OpenBackend(cfg.StoreBackend())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.Store = store.New(backend,
		store.WithLogger(a.Logger),
		store.WithMetrics(a.Metrics),
		store.WithClock(a.Now),
	)

	a.Logger.Debug("app ready",
		zap.String("store", a.Store.Backend()),
		zap.String("timezone", loc.String()),
		zap.Bool("remote_ner", cfg.NER.Endpoint != ""),
	)
	return a, nil
}

// Now is the wall clock in the configured timezone.
func (a *App) Now() time.Time {
	return time.Now().In(a.loc)
}

func (a *App) Location() *time.Location { return a.loc }

// recognizer returns the offline gazetteer, or a remote model that falls
// back to it when an endpoint is configured.
func (a *App) recognizer() (ner.Recognizer, error) {
	lex := ner.DefaultLexicon
	if a.Config.NER.Lexicon != "" {
		loaded, err := ner.LoadLexicon(a.Config.NER.Lexicon)
		if err != nil {
			return nil, err
		}
		lex = loaded
	}
	gazetteer := ner.NewGazetteer(lex)

	endpoint := a.Config.NER.Endpoint
	if endpoint == "" {
		return gazetteer, nil
	}
	nerCfg := a.Config.NER
	remote := ner.Shared(func() (ner.Recognizer, error) {
		u, err := url.Parse(endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid ner endpoint %q", endpoint)
		}
		model := ner.NewHTTPRecognizer(endpoint, nerCfg.Timeout, a.Logger)
		return ner.Cached(ner.WithTimeout(model, nerCfg.Timeout), nerCfg.CacheSize), nil
	})
	return ner.Fallback(remote, gazetteer, a.Logger), nil
}

func (a *App) Session(key string) *session.Session {
	return session.New(key, a.Extractor, a.Store,
		session.WithValidator(a.Validator),
		session.WithClock(a.Now),
		session.WithLogger(a.Logger),
	)
}

func (a *App) Close() error {
	_ = a.Logger.Sync()
	return a.Store.Close()
}
