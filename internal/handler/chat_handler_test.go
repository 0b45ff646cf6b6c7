package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syriagpt/syriagpt-go/internal/knowledge"
	"github.com/syriagpt/syriagpt-go/internal/middleware"
	"github.com/syriagpt/syriagpt-go/internal/model"
	"github.com/syriagpt/syriagpt-go/internal/service"
	"go.uber.org/zap"
)

// newTestRouter 按 server 的路由结构组装测试路由（无主后端、无缓存）
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	engine := knowledge.NewEngine()
	answerService := service.NewAnswerService(nil, engine, logger)
	qaService := service.NewQAService(answerService, engine, nil, time.Hour, logger)
	fileService := service.NewFileService(nil, 1024, 500, logger)

	r := gin.New()
	r.Use(middleware.CORS())
	r.POST("/api/chat/answer", NewChatHandler(answerService, logger).Answer)
	r.POST("/api/qa/ask", NewQAHandler(qaService, logger).Ask)
	r.POST("/api/files/analyze", NewFileHandler(fileService, logger).Analyze)
	r.GET("/ws/chat", NewWebSocketHandler(answerService, logger).Handle)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChatAnswer_Success(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/api/chat/answer", model.ChatAnswerRequest{Message: "كم عدد سكان حلب؟"})
	require.Equal(t, 200, w.Code)

	var resp model.ChatAnswerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.SourceFallback, resp.Source)
	assert.Contains(t, resp.Answer, "2.1 مليون نسمة")
	assert.False(t, resp.Timestamp.IsZero())
}

func TestChatAnswer_WithHistory(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/api/chat/answer", model.ChatAnswerRequest{
		Message: "ما طريقة تحضير التبولة؟",
		History: []model.Message{
			{Sender: model.SenderUser, Content: "مرحبا"},
			{Sender: model.SenderBot, Content: "أهلاً بك"},
		},
	})
	require.Equal(t, 200, w.Code)

	var resp model.ChatAnswerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Answer, "المقادير")
}

func TestChatAnswer_EmptyMessage(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/api/chat/answer", model.ChatAnswerRequest{Message: "   "})
	assert.Equal(t, 400, w.Code)
}

func TestChatAnswer_InvalidJSON(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest("POST", "/api/chat/answer", bytes.NewReader([]byte("{broken")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, 400, w.Code)
}

func TestQAAsk_Success(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/api/qa/ask", model.QARequest{Question: "كم عدد سكان حلب؟"})
	require.Equal(t, 200, w.Code)

	var resp model.QAResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Answer, "2.1 مليون نسمة")
	assert.NotEmpty(t, resp.RelatedQuestions)
}

func TestQAAsk_EmptyQuestion(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/api/qa/ask", model.QARequest{Question: ""})
	assert.Equal(t, 400, w.Code)
}

func TestCORS_Preflight(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest("OPTIONS", "/api/chat/answer", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, 204, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Methods"))
}
