package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syriagpt/syriagpt-go/internal/model"
)

// addFormFile 写入一个带显式 Content-Type 的文件字段
func addFormFile(t *testing.T, w *multipart.Writer, name, mimeType string, data []byte) {
	t.Helper()
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, name))
	h.Set("Content-Type", mimeType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
}

func postMultipart(t *testing.T, r *gin.Engine, build func(w *multipart.Writer)) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	build(mw)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/files/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFileAnalyze_TextFile(t *testing.T) {
	r := newTestRouter(t)

	w := postMultipart(t, r, func(mw *multipart.Writer) {
		require.NoError(t, mw.WriteField("message", "ما هذا الملف؟"))
		addFormFile(t, mw, "notes.txt", "text/plain", []byte("ملاحظات عن دمشق"))
	})
	require.Equal(t, 200, w.Code)

	var resp model.FileAnalysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "notes.txt", resp.FileName)
	assert.Contains(t, resp.ExtractedText, "ملاحظات عن دمشق")
	assert.Equal(t, model.SourceFallback, resp.AnalysisSource)
}

func TestFileAnalyze_MultipleFiles(t *testing.T) {
	r := newTestRouter(t)

	w := postMultipart(t, r, func(mw *multipart.Writer) {
		addFormFile(t, mw, "a.txt", "text/plain", []byte("الأول"))
		addFormFile(t, mw, "b.csv", "text/csv", []byte("الثاني"))
	})
	require.Equal(t, 200, w.Code)

	var resp model.FileAnalysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "a.txt, b.csv", resp.FileName)
}

func TestFileAnalyze_DisallowedType(t *testing.T) {
	r := newTestRouter(t)

	w := postMultipart(t, r, func(mw *multipart.Writer) {
		addFormFile(t, mw, "virus.exe", "application/x-msdownload", []byte{0x4d, 0x5a})
	})
	require.Equal(t, 400, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "type", resp["constraint"])
}

func TestFileAnalyze_Oversize(t *testing.T) {
	r := newTestRouter(t)

	// 测试路由的大小上限为 1024 字节
	w := postMultipart(t, r, func(mw *multipart.Writer) {
		addFormFile(t, mw, "big.txt", "text/plain", []byte(strings.Repeat("a", 2048)))
	})
	require.Equal(t, 400, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "size", resp["constraint"])
}

func TestFileAnalyze_NoFiles(t *testing.T) {
	r := newTestRouter(t)

	w := postMultipart(t, r, func(mw *multipart.Writer) {
		require.NoError(t, mw.WriteField("message", "بدون ملفات"))
	})
	require.Equal(t, 400, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "missing", resp["constraint"])
}
