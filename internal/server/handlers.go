package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hireon/hireon/internal/cv"
	"github.com/hireon/hireon/internal/embedding"
	"github.com/hireon/hireon/internal/llm"
	"github.com/hireon/hireon/internal/match"
	"github.com/hireon/hireon/internal/models"
	"github.com/hireon/hireon/internal/store"
)

// maxUploadBytes caps résumé uploads at 10MB.
const maxUploadBytes = 10 << 20

var allowedUploadExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Service: "hireon"})
}

func (s *Server) handleJobPosts(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 100)

	posts, err := s.deps.Data.AllJobPosts(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]jobPostDTO, 0, len(posts))
	for i := range posts {
		out = append(out, newJobPostDTO(&posts[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleJobSeeker(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	seeker, err := s.deps.Data.SeekerByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	skills, err := s.deps.Data.SeekerSkills(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := jobSeekerResponse{
		JobSeekerID: seeker.ID,
		FullName:    seeker.FullName,
		Bio:         seeker.Bio,
		Location:    seeker.Location,
		Skills:      make([]seekerSkillDTO, 0, len(skills)),
	}
	for _, sk := range skills {
		resp.Skills = append(resp.Skills, seekerSkillDTO{
			SkillID:          sk.SkillID,
			EndorsementCount: sk.EndorsementCount,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	topN := queryInt(r, "top_n", match.DefaultTopN)

	recs, err := s.deps.Recommender.Recommend(r.Context(), id, topN)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"job_seeker_id":   id,
		"recommendations": recs,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	resp, err := s.deps.Bot.Chat(r.Context(), req.Question, req.NResults)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	stream, jobs, err := s.deps.Bot.ChatStream(r.Context(), req.Question, req.NResults)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, fmt.Errorf("streaming unsupported"))
		return
	}

	writeSSE(w, flusher, "jobs", map[string]any{"num_jobs_found": len(jobs)})
	for stream.Next() {
		chunk := stream.Current()
		if chunk.Error != nil {
			writeSSE(w, flusher, "error", map[string]any{"error": chunk.Error.Error()})
			break
		}
		if chunk.Text != "" {
			writeSSE(w, flusher, "chunk", map[string]any{"content": chunk.Text})
		}
		if chunk.Done {
			break
		}
	}
	writeSSE(w, flusher, "end", nil)
}

func (s *Server) handleSearchJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query parameter is required"})
		return
	}
	n := queryInt(r, "n_results", 5)

	results, err := s.deps.Index.Query(r.Context(), query, n)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Results: results})
}

func (s *Server) handleIndexJobs(w http.ResponseWriter, r *http.Request) {
	force := queryBool(r, "force")

	stats, err := s.deps.Index.Rebuild(r.Context(), force)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, indexRebuildResponse{Status: "success", Stats: stats})
}

func (s *Server) handleIndexStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Index.Stats())
}

func (s *Server) handleCVUploadAndMatch(w http.ResponseWriter, r *http.Request) {
	content, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	topN := queryInt(r, "top_n", 10)

	result, err := s.deps.CVMatcher.Match(r.Context(), content, filename, topN)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCVAnalyze(w http.ResponseWriter, r *http.Request) {
	content, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	text, err := s.deps.Extractor.Extract(content, filename)
	if err != nil {
		s.writeError(w, err)
		return
	}
	vocabulary, err := s.deps.Skills.Names(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cv.Analyze(text, vocabulary))
}

func (s *Server) handleCVAnalyzeWithAI(w http.ResponseWriter, r *http.Request) {
	if !s.deps.Analyzer.Available() {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: llm.ErrUnavailable.Error()})
		return
	}

	content, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	text, err := s.deps.Extractor.Extract(content, filename)
	if err != nil {
		s.writeError(w, err)
		return
	}
	vocabulary, err := s.deps.Skills.Names(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	basic := cv.Analyze(text, vocabulary)

	var job *models.JobPost
	if jobID := r.FormValue("job_post_id"); jobID != "" {
		job, err = s.deps.Data.JobPostByID(r.Context(), jobID)
		if err != nil {
			s.writeError(w, err)
			return
		}
	}

	verdict, err := s.deps.Analyzer.Analyze(r.Context(), text, basic, job)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verdict)
}

// readUpload pulls the résumé file out of the multipart form and validates
// size, extension and non-emptiness. On failure it has already written the
// response.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart upload: " + err.Error()})
		return nil, "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "file field is required"})
		return nil, "", false
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedUploadExtensions[ext] {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("unsupported file format %q (supported: .pdf, .docx, .txt)", ext),
		})
		return nil, "", false
	}

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "read upload: " + err.Error()})
		return nil, "", false
	}
	if len(content) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "uploaded file is empty"})
		return nil, "", false
	}
	if len(content) > maxUploadBytes {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "file exceeds the 10MB limit"})
		return nil, "", false
	}
	return content, header.Filename, true
}

func decodeChatRequest(w http.ResponseWriter, r *http.Request) (chatRequest, bool) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return req, false
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "question is required"})
		return req, false
	}
	return req, true
}

// writeError maps domain errors onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var unsupported *cv.ErrUnsupportedFormat
	var parseErr *cv.ParseError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, match.ErrNoSkillsDetected):
		status = http.StatusBadRequest
	case errors.As(err, &unsupported), errors.As(err, &parseErr):
		status = http.StatusBadRequest
	case errors.Is(err, llm.ErrUnavailable), errors.Is(err, embedding.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		s.deps.Logger.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSSE(w io.Writer, flusher http.Flusher, event string, payload any) {
	fmt.Fprintf(w, "event: %s\n", event)
	if payload != nil {
		data, err := json.Marshal(payload)
		if err == nil {
			fmt.Fprintf(w, "data: %s\n", data)
		}
	}
	fmt.Fprint(w, "\n")
	flusher.Flush()
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}
