// Package server exposes the matching engine, similarity index, résumé
// analysis and RAG chat over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hireon/hireon/internal/cv"
	"github.com/hireon/hireon/internal/llm"
	"github.com/hireon/hireon/internal/match"
	"github.com/hireon/hireon/internal/models"
	"github.com/hireon/hireon/internal/rag"
	"github.com/hireon/hireon/internal/vector"
)

// Config configures a Server.
type Config struct {
	ListenAddr string
}

// JobData is the read surface for the plain data endpoints.
type JobData interface {
	AllJobPosts(ctx context.Context, limit int) ([]models.JobPost, error)
	JobPostByID(ctx context.Context, id string) (*models.JobPost, error)
	SeekerByID(ctx context.Context, id string) (*models.JobSeeker, error)
	SeekerSkills(ctx context.Context, seekerID string) ([]models.SeekerSkill, error)
}

// RecommendService ranks postings for a stored seeker profile.
type RecommendService interface {
	Recommend(ctx context.Context, seekerID string, topN int) ([]match.Recommendation, error)
}

// CVMatchService ranks postings against an uploaded résumé.
type CVMatchService interface {
	Match(ctx context.Context, content []byte, filename string, topN int) (*match.MatchResult, error)
}

// ChatService is the RAG chat surface.
type ChatService interface {
	Chat(ctx context.Context, question string, n int) (*rag.Response, error)
	ChatStream(ctx context.Context, question string, n int) (*llm.StreamReader, []vector.Result, error)
}

// SearchIndex is the similarity index surface.
type SearchIndex interface {
	Query(ctx context.Context, text string, k int) ([]vector.Result, error)
	Rebuild(ctx context.Context, force bool) (vector.Stats, error)
	Stats() vector.Stats
}

// AIAnalyzeService produces a model-written résumé review.
type AIAnalyzeService interface {
	Analyze(ctx context.Context, cvText string, basic cv.Analysis, job *models.JobPost) (map[string]any, error)
	Available() bool
}

// SkillVocabulary supplies the known skill names for résumé analysis.
type SkillVocabulary interface {
	Names(ctx context.Context) (map[uint]string, error)
}

// Deps carries every collaborator the handlers need.
type Deps struct {
	Data        JobData
	Recommender RecommendService
	CVMatcher   CVMatchService
	Bot         ChatService
	Index       SearchIndex
	Analyzer    AIAnalyzeService
	Extractor   cv.TextExtractor
	Skills      SkillVocabulary
	Logger      *zap.Logger
}

// Server is the HTTP front of the service.
type Server struct {
	cfg  Config
	deps Deps
	http *http.Server
}

// New creates a server. Logger may be nil.
func New(cfg Config, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	s := &Server{cfg: cfg, deps: deps}
	s.http = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler builds the route table. Exposed separately so tests can drive the
// mux without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("GET /job_posts", s.handleJobPosts)
	mux.HandleFunc("GET /job_seekers/{id}", s.handleJobSeeker)
	mux.HandleFunc("GET /recommendations/{id}", s.handleRecommendations)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /chat/stream", s.handleChatStream)
	mux.HandleFunc("GET /search/jobs", s.handleSearchJobs)
	mux.HandleFunc("POST /index/jobs", s.handleIndexJobs)
	mux.HandleFunc("GET /index/stats", s.handleIndexStats)
	mux.HandleFunc("POST /cv/upload-and-match", s.handleCVUploadAndMatch)
	mux.HandleFunc("POST /cv/analyze", s.handleCVAnalyze)
	mux.HandleFunc("POST /cv/analyze-with-ai", s.handleCVAnalyzeWithAI)

	return withRequestLogging(s.deps.Logger, mux)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.deps.Logger.Info("http server listening", zap.String("addr", s.cfg.ListenAddr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}
