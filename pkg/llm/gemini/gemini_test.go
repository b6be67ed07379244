package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagesage/pagesage/pkg/llm"
	"github.com/pagesage/pagesage/pkg/types"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewProvider("test-key", WithBaseURL(server.URL), WithModel("gemini-1.5-flash"))
	require.NoError(t, err)
	return p
}

func textResponse(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":` + mustJSON(text) + `}]},"finishReason":"STOP"}]}`
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestNewProviderRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	_, err := NewProvider("")
	assert.Error(t, err)
}

func TestNewProviderReadsAPIKeyFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	p, err := NewProvider("")
	require.NoError(t, err)
	assert.Equal(t, "env-key", p.apiKey)
}

func TestCompleteReturnsText(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "models/gemini-1.5-flash:generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Write([]byte(textResponse("the answer")))
	})

	answer, err := p.Complete(context.Background(), "a question")
	require.NoError(t, err)
	assert.Equal(t, "the answer", answer)
}

func TestCompleteRejectsEmptyPrompt(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty prompt")
	})

	_, err := p.Complete(context.Background(), "")
	assert.ErrorIs(t, err, llm.ErrEmptyPrompt)
}

func TestCompleteSendsGenerationConfigAndSafetySettings(t *testing.T) {
	var req generateRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Write([]byte(textResponse("ok")))
	})

	_, err := p.Complete(context.Background(), "a question")
	require.NoError(t, err)

	assert.Equal(t, 2048, req.GenerationConfig.MaxOutputTokens)
	assert.InDelta(t, 0.7, req.GenerationConfig.Temperature, 0.001)
	require.Len(t, req.SafetySettings, 4)
	assert.Equal(t, "BLOCK_MEDIUM_AND_ABOVE", req.SafetySettings[0].Threshold)
}

func TestCompleteWithImagesOrdersImagePartsFirst(t *testing.T) {
	var req generateRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Write([]byte(textResponse("described")))
	})

	images := []types.EncodedImage{
		"data:image/png;base64,Zmlyc3Q=",
		"data:image/jpeg;base64,c2Vjb25k",
	}
	answer, err := p.CompleteWithImages(context.Background(), "what are these?", images)
	require.NoError(t, err)
	assert.Equal(t, "described", answer)

	require.Len(t, req.Contents, 1)
	parts := req.Contents[0].Parts
	require.Len(t, parts, 3)

	require.NotNil(t, parts[0].InlineData)
	assert.Equal(t, "image/png", parts[0].InlineData.MimeType)
	assert.Equal(t, "Zmlyc3Q=", parts[0].InlineData.Data)

	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "image/jpeg", parts[1].InlineData.MimeType)

	assert.Nil(t, parts[2].InlineData, "text part must come last")
	assert.Equal(t, "what are these?", parts[2].Text)
}

func TestCompleteWithImagesRequiresImages(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without images")
	})

	_, err := p.CompleteWithImages(context.Background(), "question", nil)
	assert.Error(t, err)
}

func TestCompleteTranslatesBlockReasonToRejected(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`))
	})

	_, err := p.Complete(context.Background(), "a question")
	var rejected *llm.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "SAFETY", rejected.Reason)
}

func TestCompleteTranslatesSafetyFinishToRejected(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[]},"finishReason":"SAFETY"}]}`))
	})

	_, err := p.Complete(context.Background(), "a question")
	var rejected *llm.RejectedError
	assert.ErrorAs(t, err, &rejected)
}

func TestCompleteTranslatesEmptyCandidatesToMalformed(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := p.Complete(context.Background(), "a question")
	var malformed *llm.MalformedError
	assert.ErrorAs(t, err, &malformed)
}

func TestCompleteTranslatesHTTPErrorToUnavailable(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"backend overloaded"}}`))
	})

	_, err := p.Complete(context.Background(), "a question")
	assert.ErrorIs(t, err, llm.ErrUnavailable)
	assert.Contains(t, err.Error(), "backend overloaded")
}

func TestCompleteTranslatesTransportFailureToUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	p, err := NewProvider("test-key", WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), "a question")
	assert.ErrorIs(t, err, llm.ErrUnavailable)
}
