package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hireon/hireon/internal/config"
	"github.com/hireon/hireon/internal/cv"
	"github.com/hireon/hireon/internal/embedding"
	"github.com/hireon/hireon/internal/llm"
	"github.com/hireon/hireon/internal/logger"
	"github.com/hireon/hireon/internal/match"
	"github.com/hireon/hireon/internal/rag"
	"github.com/hireon/hireon/internal/server"
	"github.com/hireon/hireon/internal/store"
	"github.com/hireon/hireon/internal/vector"
)

// app holds the assembled service graph.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *store.DB
	index  *vector.Index
	server *server.Server
}

// buildApp assembles the full service from configuration. The completion
// provider is optional: without API keys the chat and AI-analysis features
// degrade and everything else works.
func buildApp(cfg *config.Config) (*app, error) {
	log, err := logger.New(logger.Options{JSON: cfg.Log.JSON, Debug: cfg.Log.Debug})
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	db, err := store.New(store.Config{
		Path:        cfg.Database.Path,
		Debug:       cfg.Database.Debug,
		MaxIdleConn: 2,
		MaxOpenConn: 4,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	provider := embedding.NewOpenAI(cfg.Embedding.APIKey, cfg.Embedding.Model)
	cache := embedding.NewCache(provider, cfg.Embedding.CacheTTL)

	index := vector.NewIndex(vector.Config{
		DataDir: cfg.Vector.DataDir,
		Backend: cfg.Vector.Backend,
		Model:   provider.Model(),
	}, provider, cache, vector.NewJobCorpus(db, 0), log.Named("vector"))

	var completion llm.Provider
	if llm.IsConfigured(cfg.LLM) {
		completion, err = llm.NewProvider(cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("build completion provider: %w", err)
		}
		log.Info("completion provider ready", zap.String("provider", completion.Name()))
	} else {
		log.Warn("no completion provider configured, chat and AI analysis disabled")
	}

	skillNames := store.NewSkillNameCache(db, 0)
	extractor := cv.PlainTextExtractor{}

	srv := server.New(server.Config{ListenAddr: cfg.ListenAddr}, server.Deps{
		Data:        db,
		Recommender: match.NewRecommender(db, skillNames, cache, log.Named("recommend")),
		CVMatcher:   match.NewCVMatcher(extractor, db, skillNames, cache, log.Named("cvmatch")),
		Bot:         rag.NewBot(index, completion, log.Named("rag")),
		Index:       index,
		Analyzer:    cv.NewAIAnalyzer(completion),
		Extractor:   extractor,
		Skills:      skillNames,
		Logger:      log.Named("http"),
	})

	return &app{
		cfg:    cfg,
		logger: log,
		db:     db,
		index:  index,
		server: srv,
	}, nil
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
