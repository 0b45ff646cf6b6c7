package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/syriagpt/syriagpt-go/internal/client"
	"github.com/syriagpt/syriagpt-go/internal/model"
	"go.uber.org/zap"
)

// 附件校验约束
const (
	ConstraintType    = "type"
	ConstraintSize    = "size"
	ConstraintMissing = "missing"
)

// ValidationError 附件校验错误，Constraint 指明违反的约束
type ValidationError struct {
	Constraint string
	Message    string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// allowedMIMETypes 附件类型白名单：声明类型 -> 简写
var allowedMIMETypes = map[string]string{
	"application/pdf":    "pdf",
	"application/msword": "doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
	"text/plain": "txt",
	"text/csv":   "csv",
}

// FileService 附件分析服务
//
// 校验先于提取：类型不在白名单或超过大小上限的文件直接返回校验错误。
// 文本类文件直接读取内容；PDF/Word 目前只生成结构化占位文本（文件名、
// 大小、时间戳），不做真实解析——调用方不应假定二进制格式的提取保真度。
type FileService struct {
	llm           LLMClient
	maxFileSize   int64
	previewLength int
	logger        *zap.Logger
}

// NewFileService 创建附件分析服务
func NewFileService(llm LLMClient, maxFileSize int64, previewLength int, logger *zap.Logger) *FileService {
	return &FileService{
		llm:           llm,
		maxFileSize:   maxFileSize,
		previewLength: previewLength,
		logger:        logger,
	}
}

// Validate 校验单个附件，通过返回 nil
func (s *FileService) Validate(att model.Attachment) *ValidationError {
	mimeType := normalizeMIME(att.MIMEType)
	if _, ok := allowedMIMETypes[mimeType]; !ok {
		return &ValidationError{
			Constraint: ConstraintType,
			Message:    fmt.Sprintf("不支持的文件类型: %s（仅支持 pdf/doc/docx/txt/csv）", att.MIMEType),
		}
	}
	if att.Size > s.maxFileSize {
		return &ValidationError{
			Constraint: ConstraintSize,
			Message:    fmt.Sprintf("文件 %s 超过大小上限: %d > %d 字节", att.Name, att.Size, s.maxFileSize),
		}
	}
	return nil
}

// Analyze 校验、提取并分析一组附件，userMessage 可为空
//
// 多个文件拼接为一次合并分析调用，拼接顺序与上传顺序一致。主后端失败
// 时返回固定的说明性文本，绝不向调用方抛出原始异常。
func (s *FileService) Analyze(userMessage string, files []model.Attachment) (*model.FileAnalysisResponse, *ValidationError) {
	if len(files) == 0 {
		return nil, &ValidationError{
			Constraint: ConstraintMissing,
			Message:    "请求中没有文件",
		}
	}

	// 1. 全部校验通过后才开始提取
	for _, att := range files {
		if vErr := s.Validate(att); vErr != nil {
			s.logger.Warn("附件校验失败",
				zap.String("file", att.Name),
				zap.String("constraint", vErr.Constraint))
			return nil, vErr
		}
	}

	// 2. 按上传顺序提取
	var names, types []string
	var totalSize int64
	var extracted strings.Builder
	for i, att := range files {
		names = append(names, att.Name)
		types = append(types, normalizeMIME(att.MIMEType))
		totalSize += att.Size

		if i > 0 {
			extracted.WriteString("\n\n")
		}
		extracted.WriteString(s.extractText(att))
	}
	extractedText := extracted.String()

	// 3. 两级分析
	analysis, source := s.analyze(userMessage, names, extractedText)

	return &model.FileAnalysisResponse{
		Success:        true,
		FileName:       strings.Join(names, ", "),
		FileSize:       totalSize,
		FileType:       strings.Join(types, ", "),
		ExtractedText:  s.preview(extractedText),
		Analysis:       analysis,
		AnalysisSource: source,
		Timestamp:      time.Now(),
	}, nil
}

// extractText 按类型分发提取
func (s *FileService) extractText(att model.Attachment) string {
	switch allowedMIMETypes[normalizeMIME(att.MIMEType)] {
	case "txt", "csv":
		return string(att.Data)
	default:
		// TODO: 接入真实的 PDF/Word 文本解析后替换此占位实现
		return fmt.Sprintf("[مستند مرفق]\nاسم الملف: %s\nالحجم: %d بايت\nوقت الرفع: %s\nملاحظة: استخراج النص الكامل من ملفات PDF وWord غير متاح حالياً، هذه بيانات وصفية فقط.",
			att.Name, att.Size, time.Now().Format(time.RFC3339))
	}
}

// analyze 合并提示词并调用主后端，失败时返回固定说明文本
func (s *FileService) analyze(userMessage string, names []string, extractedText string) (string, string) {
	if s.llm != nil && s.llm.IsConfigured() {
		answer, err := s.llm.Chat([]client.Message{
			{Role: "system", Content: personaPrompt},
			{Role: "user", Content: buildAnalysisPrompt(userMessage, names, extractedText)},
		})
		if err == nil && strings.TrimSpace(answer) != "" {
			return answer, model.SourcePrimary
		}
		s.logger.Warn("文件分析主后端调用失败，返回固定说明", zap.Error(err))
	}

	return cannedAnalysis(userMessage, names), model.SourceFallback
}

// buildAnalysisPrompt 组装结构化分析提示词：元数据 + 内容 + 问题
func buildAnalysisPrompt(userMessage string, names []string, extractedText string) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("الملفات المرفقة (%d):\n", len(names)))
	for i, name := range names {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, name))
	}
	builder.WriteString("\nالمحتوى المستخرج:\n")
	builder.WriteString(extractedText)
	builder.WriteString("\n\n")
	if strings.TrimSpace(userMessage) != "" {
		builder.WriteString(fmt.Sprintf("سؤال المستخدم: %s\n", userMessage))
	} else {
		builder.WriteString("المطلوب: قدّم ملخصاً وتحليلاً لمحتوى الملفات المرفقة.\n")
	}
	return builder.String()
}

// cannedAnalysis 主后端不可用时的固定说明文本
func cannedAnalysis(userMessage string, names []string) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("تم استلام %d ملف (%s) بنجاح، لكن خدمة التحليل الذكي غير متاحة حالياً.",
		len(names), strings.Join(names, "، ")))
	if strings.TrimSpace(userMessage) != "" {
		builder.WriteString(fmt.Sprintf(" سؤالك «%s» محفوظ مع الملفات.", userMessage))
	}
	builder.WriteString(" حاول مرة أخرى لاحقاً للحصول على تحليل كامل للمحتوى.")
	return builder.String()
}

// preview 截断提取文本到预览长度
func (s *FileService) preview(text string) string {
	runes := []rune(text)
	if len(runes) <= s.previewLength {
		return text
	}
	return string(runes[:s.previewLength]) + "..."
}

// normalizeMIME 去掉 MIME 参数部分并小写
func normalizeMIME(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
