package cv

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/hireon/hireon/internal/llm"
	"github.com/hireon/hireon/internal/models"
)

// Input caps keep completion latency bounded; résumés are rarely longer than
// two pages anyway.
const (
	maxCVChars  = 5000
	maxJobChars = 1000
)

// AIAnalyzer produces a model-written résumé review, optionally against one
// job posting.
type AIAnalyzer struct {
	provider llm.Provider
}

// NewAIAnalyzer wraps a completion provider. A nil provider is allowed; every
// call then returns llm.ErrUnavailable.
func NewAIAnalyzer(provider llm.Provider) *AIAnalyzer {
	return &AIAnalyzer{provider: provider}
}

// Available reports whether a completion provider is wired.
func (a *AIAnalyzer) Available() bool { return a.provider != nil }

// Analyze asks the completion model for a structured review of the résumé.
// job, when non-nil, switches to the compare-against-posting prompt. basic
// is the locally extracted profile, attached to the verdict so clients get
// deterministic fields alongside the model's.
func (a *AIAnalyzer) Analyze(ctx context.Context, cvText string, basic Analysis, job *models.JobPost) (map[string]any, error) {
	if a.provider == nil {
		return nil, llm.ErrUnavailable
	}

	prompt := buildAnalysisPrompt(truncate(cvText, maxCVChars), job)

	resp, err := a.provider.ChatSync(ctx, []llm.Message{llm.NewUserMessage(prompt)}, llm.ChatOptions{
		MaxTokens:   2000,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("completion: %w", err)
	}

	verdict, err := parseVerdict(resp.Content)
	if err != nil {
		return nil, err
	}

	verdict["extracted_data"] = map[string]any{
		"skills_count":     len(basic.Skills),
		"skills":           basic.Skills,
		"experience_years": basic.ExperienceYears,
		"education":        basic.Education,
	}
	return verdict, nil
}

func buildAnalysisPrompt(cvText string, job *models.JobPost) string {
	if job != nil {
		return fmt.Sprintf(`Bạn là chuyên gia phân tích CV và tuyển dụng. Hãy phân tích CV này và so sánh với job post.

**CV Content:**
%s

**Job Post:**
Title: %s
Description: %s
Requirements: %s

Hãy trả về JSON với format sau:
{
    "overall_score": <0-100>,
    "strengths": ["điểm mạnh 1", "điểm mạnh 2"],
    "weaknesses": ["điểm yếu 1", "điểm yếu 2"],
    "missing_skills": ["skill thiếu 1", "skill thiếu 2"],
    "matching_skills": ["skill phù hợp 1", "skill phù hợp 2"],
    "improvement_suggestions": [
        {
            "area": "tên phần cần cải thiện",
            "current": "hiện tại như thế nào",
            "suggestion": "gợi ý cải thiện cụ thể",
            "priority": "high/medium/low"
        }
    ],
    "fit_score": <0-100>,
    "summary": "Tóm tắt đánh giá tổng quan"
}

Chỉ trả về JSON, không thêm text khác.`,
			cvText, job.Title,
			truncate(job.Description, maxJobChars),
			truncate(job.Requirements, maxJobChars))
	}

	return fmt.Sprintf(`Bạn là chuyên gia phân tích CV. Hãy phân tích CV này một cách chi tiết.

**CV Content:**
%s

Hãy trả về JSON với format sau:
{
    "overall_score": <0-100>,
    "strengths": ["điểm mạnh 1", "điểm mạnh 2"],
    "weaknesses": ["điểm yếu 1", "điểm yếu 2"],
    "detected_skills": ["skill 1", "skill 2"],
    "experience_summary": "Tóm tắt kinh nghiệm",
    "education_summary": "Tóm tắt học vấn",
    "improvement_suggestions": [
        {
            "area": "tên phần cần cải thiện",
            "current": "hiện tại như thế nào",
            "suggestion": "gợi ý cải thiện cụ thể",
            "priority": "high/medium/low",
            "example": "ví dụ cụ thể nếu có"
        }
    ],
    "formatting_tips": ["tip format 1", "tip format 2"],
    "content_tips": ["tip nội dung 1", "tip nội dung 2"],
    "summary": "Tóm tắt đánh giá tổng quan"
}

Chỉ trả về JSON, không thêm text khác.`, cvText)
}

var (
	fenceOpen  = regexp.MustCompile("^```(?:json)?\n")
	fenceClose = regexp.MustCompile("\n```$")
)

// parseVerdict decodes the model's JSON answer, tolerating markdown code
// fences around it.
func parseVerdict(raw string) (map[string]any, error) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = fenceOpen.ReplaceAllString(text, "")
		text = fenceClose.ReplaceAllString(text, "")
	}

	var verdict map[string]any
	if err := json.Unmarshal([]byte(text), &verdict); err != nil {
		return nil, fmt.Errorf("parse model verdict: %w", err)
	}
	return verdict, nil
}
