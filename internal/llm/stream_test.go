package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamReader_Basic(t *testing.T) {
	sr := NewStreamReader()

	go func() {
		sr.Send(StreamChunk{Text: "Hello "})
		sr.Send(StreamChunk{Text: "World"})
		sr.Send(StreamChunk{Text: "!", Done: true})
		sr.Close()
	}()

	var result string
	for sr.Next() {
		result += sr.Current().Text
	}
	assert.Equal(t, "Hello World!", result)
}

func TestStreamReader_Collect(t *testing.T) {
	sr := NewStreamReader()

	go func() {
		sr.Send(StreamChunk{Text: "Hello "})
		sr.Send(StreamChunk{Text: "World", Done: true})
		sr.Close()
	}()

	result, err := sr.Collect()
	require.NoError(t, err)
	assert.Equal(t, "Hello World", result)
}

func TestStreamReader_CollectWithError(t *testing.T) {
	sr := NewStreamReader()
	testErr := errors.New("test error")

	go func() {
		sr.Send(StreamChunk{Text: "Hello "})
		sr.Send(StreamChunk{Error: testErr})
		sr.Send(StreamChunk{Text: "World", Done: true})
		sr.Close()
	}()

	result, err := sr.Collect()
	assert.Equal(t, testErr, err)
	// Partial content survives the error chunk.
	assert.Equal(t, "Hello World", result)
}

func TestStreamReader_CloseMultipleTimes(t *testing.T) {
	sr := NewStreamReader()

	// Should not panic
	sr.Close()
	sr.Close()

	assert.True(t, sr.closed)
}

func TestStreamReader_SendAfterClose(t *testing.T) {
	sr := NewStreamReader()
	sr.Close()

	// No-op, no panic.
	sr.Send(StreamChunk{Text: "ignored"})

	_, ok := <-sr.chunks
	assert.False(t, ok)
}
