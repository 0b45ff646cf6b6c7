package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewGeminiClient("test-key", "gemini-1.5-flash", zap.NewNop())
	c.SetBaseURL(srv.URL)
	return c
}

func successBody(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":"` + text + `"}]},"finishReason":"STOP"}],"usageMetadata":{"promptTokenCount":10,"candidatesTokenCount":20}}`
}

func TestChat_Success(t *testing.T) {
	var gotPath, gotKey string
	var gotReq generateRequest

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(successBody("إجابة تجريبية")))
	})

	answer, err := c.Chat([]Message{
		{Role: "system", Content: "تعليمات النظام"},
		{Role: "user", Content: "سؤال"},
		{Role: "assistant", Content: "إجابة سابقة"},
		{Role: "user", Content: "سؤال لاحق"},
	})
	require.NoError(t, err)
	assert.Equal(t, "إجابة تجريبية", answer)

	assert.Equal(t, "/models/gemini-1.5-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)

	// system 合并进 systemInstruction，assistant 映射为 model 角色
	require.NotNil(t, gotReq.SystemInstruction)
	assert.Equal(t, "تعليمات النظام", gotReq.SystemInstruction.Parts[0].Text)
	require.Len(t, gotReq.Contents, 3)
	assert.Equal(t, "user", gotReq.Contents[0].Role)
	assert.Equal(t, "model", gotReq.Contents[1].Role)
	assert.InDelta(t, 0.7, gotReq.GenerationConfig.Temperature, 0.001)
	assert.Equal(t, 2000, gotReq.GenerationConfig.MaxOutputTokens)
}

func TestChat_MultiPartAnswerJoined(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"الجزء الأول "},{"text":"والجزء الثاني"}]}}]}`))
	})

	answer, err := c.Chat([]Message{{Role: "user", Content: "سؤال"}})
	require.NoError(t, err)
	assert.Equal(t, "الجزء الأول والجزء الثاني", answer)
}

func TestChat_AuthErrors(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})

		_, err := c.Chat([]Message{{Role: "user", Content: "سؤال"}})
		assert.ErrorIs(t, err, ErrUnauthorized)
	}
}

func TestChat_QuotaExceeded(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	})

	_, err := c.Chat([]Message{{Role: "user", Content: "سؤال"}})
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestChat_EmptyAnswer(t *testing.T) {
	t.Run("无候选", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[]}`))
		})
		_, err := c.Chat([]Message{{Role: "user", Content: "سؤال"}})
		assert.ErrorIs(t, err, ErrEmptyAnswer)
	})

	t.Run("空白文本", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(successBody("   ")))
		})
		_, err := c.Chat([]Message{{Role: "user", Content: "سؤال"}})
		assert.ErrorIs(t, err, ErrEmptyAnswer)
	})
}

func TestChat_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Chat([]Message{{Role: "user", Content: "سؤال"}})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrQuotaExceeded)
}

func TestChat_Unconfigured(t *testing.T) {
	c := NewGeminiClient("", "gemini-1.5-flash", zap.NewNop())

	assert.False(t, c.IsConfigured())
	_, err := c.Chat([]Message{{Role: "user", Content: "سؤال"}})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSimpleChat(t *testing.T) {
	var gotReq generateRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(successBody("إجابة")))
	})

	answer, err := c.SimpleChat("تعليمات", "سؤال")
	require.NoError(t, err)
	assert.Equal(t, "إجابة", answer)
	require.NotNil(t, gotReq.SystemInstruction)
	require.Len(t, gotReq.Contents, 1)
}
