package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/syriagpt/syriagpt-go/internal/model"
	"github.com/syriagpt/syriagpt-go/internal/service"
	"go.uber.org/zap"
)

// FileHandler 文件分析处理器
type FileHandler struct {
	fileService *service.FileService
	logger      *zap.Logger
}

// NewFileHandler 创建文件分析处理器
func NewFileHandler(fileService *service.FileService, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		logger:      logger,
	}
}

// Analyze 文件分析接口（multipart/form-data）
//
// 字段：message（可选文本）、files（一个或多个文件）。任何一个文件
// 校验失败则整个请求失败，不做部分提取。
func (h *FileHandler) Analyze(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid multipart form"})
		return
	}
	userMessage := c.PostForm("message")

	var files []model.Attachment
	for _, fh := range form.File["files"] {
		att := model.Attachment{
			ID:       uuid.New().String(),
			Name:     fh.Filename,
			Size:     fh.Size,
			MIMEType: fh.Header.Get("Content-Type"),
		}

		// 先按元数据校验，避免把超限文件读进内存
		if vErr := h.fileService.Validate(att); vErr != nil {
			c.JSON(400, gin.H{"error": vErr.Message, "constraint": vErr.Constraint})
			return
		}

		f, err := fh.Open()
		if err != nil {
			h.logger.Error("打开上传文件失败", zap.String("file", fh.Filename), zap.Error(err))
			c.JSON(500, gin.H{"error": "读取上传文件失败"})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			h.logger.Error("读取上传文件失败", zap.String("file", fh.Filename), zap.Error(err))
			c.JSON(500, gin.H{"error": "读取上传文件失败"})
			return
		}
		att.Data = data
		files = append(files, att)
	}

	resp, vErr := h.fileService.Analyze(userMessage, files)
	if vErr != nil {
		c.JSON(400, gin.H{"error": vErr.Message, "constraint": vErr.Constraint})
		return
	}

	h.logger.Info("文件分析完成",
		zap.Int("fileCount", len(files)),
		zap.String("source", resp.AnalysisSource))

	c.JSON(200, resp)
}
