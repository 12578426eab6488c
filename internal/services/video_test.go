package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sciencegpt-backend/internal/llm"
	"sciencegpt-backend/internal/models"
)

var testCandidates = []models.VideoCandidate{
	{ID: "aaaaaaaaaaa", Title: "Rayleigh scattering", Description: "Why the sky is blue"},
	{ID: "bbbbbbbbbbb", Title: "Light and colour", Description: "Colours of light"},
	{ID: "ccccccccccc", Title: "Sunsets explained", Description: "Red skies"},
}

func TestVideoSelector_UsesModelChoice(t *testing.T) {
	index := &fakeIndex{results: testCandidates}
	mock := llm.NewMockProvider(llm.MockResponse{Text: "The best video is bbbbbbbbbbb."})
	sel := NewVideoSelector(index, mock, nil)

	got := sel.Select(t.Context(), "Why is the sky blue?", 5, "Physics", models.AllTopics)
	require.NotNil(t, got)
	assert.Equal(t, "bbbbbbbbbbb", got.ID)

	require.Len(t, index.queries, 1)
	assert.Equal(t, "educational video for grade 5 Physics: Why is the sky blue?", index.queries[0])
	assert.Equal(t, 5, index.max)

	req, ok := mock.LastCall()
	require.True(t, ok)
	assert.Equal(t, 0.2, req.Temperature)
	assert.Contains(t, req.Prompt, "ccccccccccc")
}

func TestVideoSelector_QueryIncludesTopic(t *testing.T) {
	index := &fakeIndex{}
	sel := NewVideoSelector(index, nil, nil)

	sel.Select(t.Context(), "What is a lens?", 8, "Physics", "Light")
	require.Len(t, index.queries, 1)
	assert.Equal(t, "educational video for grade 8 Physics Light: What is a lens?", index.queries[0])
}

func TestVideoSelector_FirstResultFallback(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"no id in response", llm.MockResponse{Text: "I would pick the second video."}},
		{"unknown id", llm.MockResponse{Text: "zzzzzzzzzzz"}},
		{"model error", llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := NewVideoSelector(&fakeIndex{results: testCandidates}, llm.NewMockProvider(tt.resp), nil)
			got := sel.Select(t.Context(), "Why is the sky blue?", 5, "Physics", models.AllTopics)
			require.NotNil(t, got)
			assert.Equal(t, "aaaaaaaaaaa", got.ID)
		})
	}
}

func TestVideoSelector_IDInsideLongerToken(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "video_bbbbbbbbbbb"})
	sel := NewVideoSelector(&fakeIndex{results: testCandidates}, mock, nil)

	got := sel.Select(t.Context(), "Why is the sky blue?", 5, "Physics", models.AllTopics)
	require.NotNil(t, got)
	assert.Equal(t, "bbbbbbbbbbb", got.ID)
}

func TestVideoSelector_NoVideo(t *testing.T) {
	t.Run("empty search", func(t *testing.T) {
		mock := llm.NewMockProvider()
		sel := NewVideoSelector(&fakeIndex{}, mock, nil)
		assert.Nil(t, sel.Select(t.Context(), "q", 5, "Physics", models.AllTopics))
		assert.Equal(t, 0, mock.CallCount())
	})

	t.Run("search error", func(t *testing.T) {
		sel := NewVideoSelector(&fakeIndex{err: errors.New("quota exceeded")}, llm.NewMockProvider(), nil)
		assert.Nil(t, sel.Select(t.Context(), "q", 5, "Physics", models.AllTopics))
	})

	t.Run("no index", func(t *testing.T) {
		sel := NewVideoSelector(nil, llm.NewMockProvider(), nil)
		assert.Nil(t, sel.Select(t.Context(), "q", 5, "Physics", models.AllTopics))
	})
}

func TestMatchCandidate(t *testing.T) {
	assert.Equal(t, "ccccccccccc", matchCandidate(`{"id": "ccccccccccc"}`, testCandidates).ID)
	assert.Equal(t, "aaaaaaaaaaa", matchCandidate("watch?v=aaaaaaaaaaa&t=1", testCandidates).ID)
	assert.Nil(t, matchCandidate("", testCandidates))
	assert.Nil(t, matchCandidate("no id here", testCandidates))

	// Ids glued to other id characters.
	assert.Equal(t, "bbbbbbbbbbb", matchCandidate("video_bbbbbbbbbbb", testCandidates).ID)
	assert.Equal(t, "ccccccccccc", matchCandidate("Pick:xccccccccccc-then-aaaaaaaaaaa1", testCandidates).ID)
}
