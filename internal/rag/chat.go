// Package rag answers job-search questions by retrieving relevant postings
// from the similarity index and grounding a completion model on them.
package rag

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hireon/hireon/internal/llm"
	"github.com/hireon/hireon/internal/vector"
)

// DefaultNResults is the retrieved-posting count when the caller does not
// ask for a specific one.
const DefaultNResults = 5

// unavailableAnswer is returned verbatim when no completion provider is
// configured. The feature degrades; it never takes the process down.
const unavailableAnswer = "Lỗi: chưa cấu hình API key cho mô hình ngôn ngữ. Vui lòng kiểm tra cấu hình."

const systemPrompt = `Bạn là trợ lý AI chuyên về tuyển dụng và tìm việc làm tại Việt Nam.
Nhiệm vụ của bạn là giúp người dùng tìm kiếm và tư vấn về các cơ hội việc làm phù hợp.

Khi trả lời:
1. Trả lời bằng tiếng Việt một cách thân thiện và chuyên nghiệp
2. Dựa trên thông tin công việc được cung cấp để đưa ra câu trả lời chính xác
3. Nếu không có công việc phù hợp, hãy thông báo lịch sự và đề xuất mở rộng tiêu chí tìm kiếm
4. Nếu có nhiều công việc phù hợp, hãy trình bày ngắn gọn từng công việc
5. Làm nổi bật các thông tin quan trọng như: vị trí, công ty, địa điểm, mức lương, kỹ năng yêu cầu
6. Nếu người dùng hỏi về kỹ năng cụ thể, hãy đề xuất các công việc liên quan đến kỹ năng đó`

// Searcher is the retrieval surface, normally the vector index.
type Searcher interface {
	Query(ctx context.Context, text string, k int) ([]vector.Result, error)
}

// Response is a complete chat answer with its retrieval evidence.
type Response struct {
	Answer       string          `json:"answer"`
	RelevantJobs []vector.Result `json:"relevant_jobs"`
	NumJobsFound int             `json:"num_jobs_found"`
	Status       string          `json:"status"`
	Error        string          `json:"error,omitempty"`
}

// Bot is the retrieval-augmented chat service.
type Bot struct {
	searcher Searcher
	provider llm.Provider
	logger   *zap.Logger
}

// NewBot creates a chat bot. provider may be nil; answers then report the
// feature as unavailable.
func NewBot(searcher Searcher, provider llm.Provider, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{searcher: searcher, provider: provider, logger: logger}
}

// Available reports whether a completion provider is wired.
func (b *Bot) Available() bool { return b.provider != nil }

// Chat retrieves postings relevant to the question and generates a grounded
// answer. Retrieval or generation failures come back inside the response
// rather than as a Go error, so the HTTP surface always has something to
// show.
func (b *Bot) Chat(ctx context.Context, question string, n int) (*Response, error) {
	if n <= 0 {
		n = DefaultNResults
	}
	if b.provider == nil {
		return &Response{
			Answer:       unavailableAnswer,
			RelevantJobs: []vector.Result{},
			Status:       "error",
			Error:        llm.ErrUnavailable.Error(),
		}, nil
	}

	jobs, err := b.retrieve(ctx, question, n)
	if err != nil {
		return nil, fmt.Errorf("retrieve jobs: %w", err)
	}

	prompt := buildPrompt(question, jobs)
	resp, err := b.provider.ChatSync(ctx, []llm.Message{llm.NewUserMessage(prompt)}, llm.ChatOptions{
		MaxTokens:   1500,
		Temperature: 0.7,
	})
	if err != nil {
		b.logger.Error("chat completion failed", zap.Error(err))
		return &Response{
			Answer:       fmt.Sprintf("Lỗi khi xử lý câu hỏi: %v", err),
			RelevantJobs: []vector.Result{},
			Status:       "error",
			Error:        err.Error(),
		}, nil
	}

	return &Response{
		Answer:       resp.Content,
		RelevantJobs: jobs,
		NumJobsFound: len(jobs),
		Status:       "success",
	}, nil
}

// ChatStream is Chat with a streaming answer. The retrieved postings are
// returned up front so the caller can emit them before the first token.
func (b *Bot) ChatStream(ctx context.Context, question string, n int) (*llm.StreamReader, []vector.Result, error) {
	if n <= 0 {
		n = DefaultNResults
	}
	if b.provider == nil {
		return nil, nil, llm.ErrUnavailable
	}

	jobs, err := b.retrieve(ctx, question, n)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve jobs: %w", err)
	}

	prompt := buildPrompt(question, jobs)
	stream, err := b.provider.Chat(ctx, []llm.Message{llm.NewUserMessage(prompt)}, llm.ChatOptions{
		MaxTokens:   1500,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("start completion stream: %w", err)
	}
	return stream, jobs, nil
}

// retrieve runs index search with location awareness: when the question
// names a city, the candidate pool widens fivefold and candidates whose
// metadata matches the city are preferred. With no metadata match the
// original ranking stands.
func (b *Bot) retrieve(ctx context.Context, question string, n int) ([]vector.Result, error) {
	loc := ExtractLocation(question)

	pool := n
	if loc != "" {
		pool = n * 5
		if minPool := n + 5; pool < minPool {
			pool = minPool
		}
	}

	candidates, err := b.searcher.Query(ctx, question, pool)
	if err != nil {
		return nil, err
	}

	if loc == "" {
		return head(candidates, n), nil
	}

	var filtered []vector.Result
	for _, c := range candidates {
		if locationMatches(c.Metadata, loc) {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) > 0 {
		b.logger.Debug("location filter applied",
			zap.String("location", loc),
			zap.Int("matched", len(filtered)))
		return head(filtered, n), nil
	}
	return head(candidates, n), nil
}

func head(results []vector.Result, n int) []vector.Result {
	if len(results) > n {
		return results[:n]
	}
	return results
}

// buildPrompt assembles the grounded prompt: system instructions, retrieved
// postings, then the question.
func buildPrompt(question string, jobs []vector.Result) string {
	var sb strings.Builder
	sb.WriteString(systemPrompt)
	sb.WriteString("\n\n=== THÔNG TIN CÔNG VIỆC LIÊN QUAN ===\n")

	if len(jobs) == 0 {
		sb.WriteString("Không tìm thấy công việc phù hợp trong cơ sở dữ liệu.\n")
	} else {
		for i, job := range jobs {
			fmt.Fprintf(&sb, "\n--- Công việc %d ---\n", i+1)
			sb.WriteString(job.Document)
			sb.WriteString("\n")
			if id := job.Metadata["job_id"]; id != "" {
				fmt.Fprintf(&sb, "ID: %s\n", id)
			}
		}
	}

	sb.WriteString("\n=== CÂU HỎI CỦA NGƯỜI DÙNG ===\n")
	sb.WriteString(question)
	sb.WriteString("\n\n=== TRẢ LỜI ===\n")
	return sb.String()
}
