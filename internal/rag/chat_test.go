package rag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireon/hireon/internal/llm"
	"github.com/hireon/hireon/internal/vector"
)

type fakeSearcher struct {
	results []vector.Result
	lastK   int
}

func (f *fakeSearcher) Query(_ context.Context, _ string, k int) ([]vector.Result, error) {
	f.lastK = k
	if len(f.results) > k {
		return f.results[:k], nil
	}
	return f.results, nil
}

type fakeProvider struct {
	answer     string
	lastPrompt string
}

func (f *fakeProvider) Chat(_ context.Context, _ []llm.Message, _ llm.ChatOptions) (*llm.StreamReader, error) {
	stream := llm.NewStreamReader()
	go func() {
		stream.Send(llm.StreamChunk{Text: f.answer})
		stream.Send(llm.StreamChunk{Done: true})
		stream.Close()
	}()
	return stream, nil
}

func (f *fakeProvider) ChatSync(_ context.Context, messages []llm.Message, _ llm.ChatOptions) (*llm.Response, error) {
	f.lastPrompt = messages[len(messages)-1].Content
	return &llm.Response{Content: f.answer}, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func jobResult(id, doc, location string) vector.Result {
	return vector.Result{
		ID:       id,
		Document: doc,
		Metadata: map[string]string{"job_id": id, "location": location},
	}
}

func TestChatWithoutProvider(t *testing.T) {
	bot := NewBot(&fakeSearcher{}, nil, nil)

	resp, err := bot.Chat(context.Background(), "việc làm python", 5)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, unavailableAnswer, resp.Answer)
	assert.Empty(t, resp.RelevantJobs)
}

func TestChatReturnsAnswerAndEvidence(t *testing.T) {
	searcher := &fakeSearcher{results: []vector.Result{
		jobResult("job-1", "Tiêu đề: Backend Dev", "Hà Nội"),
		jobResult("job-2", "Tiêu đề: Data Engineer", "Đà Nẵng"),
	}}
	bot := NewBot(searcher, &fakeProvider{answer: "Có 2 công việc phù hợp."}, nil)

	resp, err := bot.Chat(context.Background(), "việc làm backend", 5)
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Có 2 công việc phù hợp.", resp.Answer)
	assert.Equal(t, 2, resp.NumJobsFound)
	assert.Equal(t, 5, searcher.lastK)
}

func TestChatWidensPoolForLocationQuery(t *testing.T) {
	searcher := &fakeSearcher{results: []vector.Result{
		jobResult("job-1", "doc", "Hồ Chí Minh"),
		jobResult("job-2", "doc", "Hà Nội"),
		jobResult("job-3", "doc", "Hà Nội"),
	}}
	bot := NewBot(searcher, &fakeProvider{answer: "ok"}, nil)

	resp, err := bot.Chat(context.Background(), "việc làm tại Hà Nội", 2)
	require.NoError(t, err)

	// Pool widened to max(2*5, 2+5) = 10, then filtered down to Hanoi.
	assert.Equal(t, 10, searcher.lastK)
	require.Len(t, resp.RelevantJobs, 2)
	for _, job := range resp.RelevantJobs {
		assert.Equal(t, "Hà Nội", job.Metadata["location"])
	}
}

func TestChatLocationFallbackKeepsRanking(t *testing.T) {
	searcher := &fakeSearcher{results: []vector.Result{
		jobResult("job-1", "doc", "Hà Nội"),
		jobResult("job-2", "doc", "Hà Nội"),
	}}
	bot := NewBot(searcher, &fakeProvider{answer: "ok"}, nil)

	// No posting is in Da Nang; the ranked candidates stand.
	resp, err := bot.Chat(context.Background(), "việc ở Đà Nẵng", 2)
	require.NoError(t, err)
	require.Len(t, resp.RelevantJobs, 2)
	assert.Equal(t, "job-1", resp.RelevantJobs[0].ID)
}

func TestChatStream(t *testing.T) {
	searcher := &fakeSearcher{results: []vector.Result{
		jobResult("job-1", "doc", "Hà Nội"),
	}}
	bot := NewBot(searcher, &fakeProvider{answer: "từng phần"}, nil)

	stream, jobs, err := bot.ChatStream(context.Background(), "việc làm", 5)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	text, err := stream.Collect()
	require.NoError(t, err)
	assert.Equal(t, "từng phần", text)
}

func TestChatStreamWithoutProvider(t *testing.T) {
	bot := NewBot(&fakeSearcher{}, nil, nil)
	_, _, err := bot.ChatStream(context.Background(), "việc làm", 5)
	assert.ErrorIs(t, err, llm.ErrUnavailable)
}

func TestExtractLocation(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"việc làm tại Hà Nội", "ha noi"},
		{"jobs in Hanoi", "ha noi"},
		{"công việc ở Đà Nẵng", "da nang"},
		{"developer tại HCM", "ho chi minh"},
		{"jobs in saigon", "ho chi minh"},
		{"backend tại Hải Phòng", "hai phong"},
		{"can tho opportunities", "can tho"},
		{"remote work", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractLocation(tt.text))
		})
	}
}

func TestLocationMatches(t *testing.T) {
	assert.True(t, locationMatches(map[string]string{"location": "Hà Nội, Việt Nam"}, "ha noi"))
	assert.True(t, locationMatches(map[string]string{"city": "Da Nang"}, "da nang"))
	assert.False(t, locationMatches(map[string]string{"location": "Hồ Chí Minh"}, "ha noi"))
	assert.False(t, locationMatches(map[string]string{}, "ha noi"))
}

func TestBuildPromptIncludesContext(t *testing.T) {
	prompt := buildPrompt("câu hỏi", []vector.Result{
		jobResult("job-9", "Tiêu đề: DevOps", "Hà Nội"),
	})
	assert.Contains(t, prompt, "Tiêu đề: DevOps")
	assert.Contains(t, prompt, "ID: job-9")
	assert.Contains(t, prompt, "câu hỏi")

	empty := buildPrompt("câu hỏi", nil)
	assert.Contains(t, empty, "Không tìm thấy công việc phù hợp")
}
