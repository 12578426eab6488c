package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete_TrimsText(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "  Rayleigh scattering.\n"})

	text, err := Complete(context.Background(), mock, Request{Prompt: "why blue"})
	require.NoError(t, err)
	assert.Equal(t, "Rayleigh scattering.", text)

	call, ok := mock.LastCall()
	require.True(t, ok)
	assert.Equal(t, "why blue", call.Prompt)
}

func TestComplete_EmptyIsError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: " \n\t"})

	_, err := Complete(context.Background(), mock, Request{})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestComplete_PropagatesError(t *testing.T) {
	mock := NewMockProvider()

	_, err := Complete(context.Background(), mock, Request{})
	var unavail *ErrProviderUnavailable
	assert.True(t, errors.As(err, &unavail))
}

func TestPurpose(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", PurposeFrom(ctx))
	assert.Equal(t, "answer", PurposeFrom(WithPurpose(ctx, "answer")))
}

func TestResolveModel(t *testing.T) {
	assert.Equal(t, "gpt-4o-mini", resolveModel("gpt-4o-mini", openaiModels))
	assert.Equal(t, "meta-llama/llama-4-scout-17b-16e-instruct", resolveModel("llama-scout", openaiModels))
	assert.Equal(t, "custom/model", resolveModel("custom/model", openaiModels))
}
