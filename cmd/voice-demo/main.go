package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/syriagpt/syriagpt-go/internal/model"
	"github.com/syriagpt/syriagpt-go/internal/session"
	"github.com/syriagpt/syriagpt-go/internal/speech"
	"github.com/syriagpt/syriagpt-go/pkg/logger"
	"go.uber.org/zap"
)

// httpResolver 通过 server 的 HTTP 接口解析回答
type httpResolver struct {
	serverURL  string
	httpClient *http.Client
}

func (r *httpResolver) Resolve(message string, attachments []model.Attachment, history []model.Message) (*model.AnswerResult, []string, error) {
	// 带附件的提交走文件分析接口
	if len(attachments) > 0 {
		return r.resolveFiles(message, attachments)
	}

	body, err := json.Marshal(model.ChatAnswerRequest{
		Message: message,
		History: history,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("序列化请求失败: %w", err)
	}

	resp, err := r.httpClient.Post(r.serverURL+"/api/chat/answer", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("调用回答接口失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, nil, fmt.Errorf("回答接口返回 %d", resp.StatusCode)
	}

	var answer model.ChatAnswerResponse
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, nil, fmt.Errorf("解析响应失败: %w", err)
	}

	return &model.AnswerResult{Answer: answer.Answer, Source: answer.Source}, nil, nil
}

// resolveFiles 组装 multipart 请求调用文件分析接口
func (r *httpResolver) resolveFiles(message string, attachments []model.Attachment) (*model.AnswerResult, []string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if message != "" {
		if err := mw.WriteField("message", message); err != nil {
			return nil, nil, fmt.Errorf("写入消息字段失败: %w", err)
		}
	}
	for _, att := range attachments {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, att.Name))
		h.Set("Content-Type", att.MIMEType)
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, nil, fmt.Errorf("写入文件字段失败: %w", err)
		}
		if _, err := part.Write(att.Data); err != nil {
			return nil, nil, fmt.Errorf("写入文件内容失败: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, nil, fmt.Errorf("关闭 multipart 写入器失败: %w", err)
	}

	resp, err := r.httpClient.Post(r.serverURL+"/api/files/analyze", mw.FormDataContentType(), &buf)
	if err != nil {
		return nil, nil, fmt.Errorf("调用文件分析接口失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, nil, fmt.Errorf("文件分析接口返回 %d", resp.StatusCode)
	}

	var analysis model.FileAnalysisResponse
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return nil, nil, fmt.Errorf("解析响应失败: %w", err)
	}

	return &model.AnswerResult{Answer: analysis.Analysis, Source: analysis.AnalysisSource}, nil, nil
}

// 语音驱动的对话演示：脚本化识别器回放一段语音输入，最终结果
// 提交到会话账本，由 server 解析后打印完整对话记录。
func main() {
	serverURL := flag.String("server", "http://localhost:8080", "server 服务地址")
	flag.Parse()

	zapLogger, err := logger.NewLogger("debug")
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zapLogger.Sync()

	store := session.NewStore(&httpResolver{
		serverURL:  *serverURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, zapLogger)

	rec := speech.NewScriptedRecognizer()
	manager := speech.NewManager(rec, zapLogger)

	var transcript string
	started := manager.Start(speech.Options{
		Language:       "ar-SY",
		InterimResults: true,
		OnResult: func(text string, isFinal bool) {
			if isFinal {
				transcript = text
			}
			zapLogger.Info("识别结果", zap.String("text", text), zap.Bool("final", isFinal))
		},
		OnError: func(code speech.ErrorCode, message string) {
			zapLogger.Warn("识别错误", zap.String("code", string(code)), zap.String("message", message))
		},
		OnEnd: func() {
			zapLogger.Info("识别会话结束")
		},
	})
	if !started {
		log.Fatal("启动语音采集失败")
	}

	// 回放脚本：一次中间结果、一次瞬态错误（触发自动重启）、最终结果
	rec.EmitSpeechStart()
	rec.EmitResult("ما هو عدد", false)
	rec.EmitError(speech.ErrNetwork)
	time.Sleep(1200 * time.Millisecond)
	rec.EmitResult("ما هو عدد سكان حلب؟", true)
	manager.Stop()

	if transcript == "" {
		log.Fatal("未采集到最终识别结果")
	}

	if !store.Submit(transcript, nil) {
		log.Fatal("提交识别结果失败")
	}

	// 等待解析完成
	for store.IsLoading() {
		time.Sleep(100 * time.Millisecond)
	}

	fmt.Println("===== 对话记录 =====")
	for _, msg := range store.Messages() {
		fmt.Printf("[%s] %s\n", msg.Sender, msg.Content)
	}
	if lastErr := store.LastError(); lastErr != "" {
		fmt.Printf("最近错误: %s\n", lastErr)
	}
}
