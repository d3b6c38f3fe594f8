// internal/api/handlers.go
package api

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Corphon/ClipForge/internal/errors"
	"github.com/Corphon/ClipForge/internal/models"
	"github.com/Corphon/ClipForge/internal/services"
	"github.com/Corphon/ClipForge/internal/utils"
)

// 试听文本超出该长度时截断，避免把整段脚本喂给合成接口
const maxPreviewTextLength = 200

// Handler 处理API请求
type Handler struct {
	ScriptService *services.ScriptService
	DemoService   *services.DemoService
	VoiceService  *services.VoiceService

	Response *ResponseHelper
}

// NewHandler 创建API处理器
func NewHandler(
	scriptService *services.ScriptService,
	demoService *services.DemoService,
	voiceService *services.VoiceService) *Handler {

	return &Handler{
		ScriptService: scriptService,
		DemoService:   demoService,
		VoiceService:  voiceService,
		Response:      NewResponseHelper(),
	}
}

// GenerateScript 生成视频脚本
func (h *Handler) GenerateScript(c *gin.Context) {
	var req models.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "请求格式错误", err.Error())
		return
	}

	if strings.TrimSpace(req.Description) == "" {
		h.Response.Error(c, 400, ErrorDescriptionRequired, "视频描述不能为空")
		return
	}

	if req.Duration <= 0 {
		req.Duration = 30
	}

	start := time.Now()
	result := h.ScriptService.GenerateScript(c.Request.Context(), req)
	utils.NewAPIMetrics().RecordGeneration("script", result.Script.GeneratedBy, time.Since(start))

	BroadcastActivity("script_generated", map[string]interface{}{
		"script_id":    result.Script.ID,
		"generated_by": result.Script.GeneratedBy,
	})

	h.Response.Success(c, result)
}

// GenerateDemoSentences 生成语音试听句
func (h *Handler) GenerateDemoSentences(c *gin.Context) {
	var req models.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "请求格式错误", err.Error())
		return
	}

	if strings.TrimSpace(req.Description) == "" {
		h.Response.Error(c, 400, ErrorDescriptionRequired, "视频描述不能为空")
		return
	}

	start := time.Now()
	result := h.DemoService.GenerateDemoSentences(c.Request.Context(), req)
	utils.NewAPIMetrics().RecordGeneration("demo", result.GeneratedBy, time.Since(start))

	h.Response.Success(c, result)
}

// GetVoices 返回聚合语音目录
func (h *Handler) GetVoices(c *gin.Context) {
	catalog := h.VoiceService.GetVoices(c.Request.Context())
	h.Response.Success(c, catalog)
}

// voicePreviewRequest 试听请求体
type voicePreviewRequest struct {
	VoiceID          string `json:"voice_id"`
	DemoText         string `json:"demo_text"`
	StyleInstruction string `json:"style_instruction,omitempty"`
}

// PreviewVoice 试听指定语音
func (h *Handler) PreviewVoice(c *gin.Context) {
	var req voicePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "请求格式错误", err.Error())
		return
	}

	if req.VoiceID == "" {
		h.Response.Error(c, 400, ErrorVoiceIDRequired, "voice_id不能为空")
		return
	}
	if strings.TrimSpace(req.DemoText) == "" {
		h.Response.Error(c, 400, ErrorTextRequired, "demo_text不能为空")
		return
	}

	// 试听文本截断到固定上限，按字符计数
	req.DemoText = utils.TruncateRunes(req.DemoText, maxPreviewTextLength)

	entry, err := h.VoiceService.GetVoiceInfo(c.Request.Context(), req.VoiceID)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			h.Response.Error(c, 404, ErrorVoiceNotFound, err.Error())
			return
		}
		h.Response.InternalError(c, "查询语音失败", err.Error())
		return
	}

	_, authenticated := GetUserFromContext(c)
	if !services.CanSynthesize(entry, authenticated) {
		h.Response.Error(c, 401, ErrorPremiumVoiceLocked, "Premium voices require authentication")
		return
	}

	result := h.VoiceService.PreviewVoice(c.Request.Context(), req.VoiceID, req.DemoText, req.StyleInstruction)
	h.Response.Success(c, result)
}

// GenerateVoice 为脚本合成完整配音
func (h *Handler) GenerateVoice(c *gin.Context) {
	var req models.SynthesisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "请求格式错误", err.Error())
		return
	}

	if req.VoiceID == "" {
		h.Response.Error(c, 400, ErrorVoiceIDRequired, "voice_id不能为空")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		h.Response.Error(c, 400, ErrorTextRequired, "text不能为空")
		return
	}

	entry, err := h.VoiceService.GetVoiceInfo(c.Request.Context(), req.VoiceID)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			h.Response.Error(c, 404, ErrorVoiceNotFound, err.Error())
			return
		}
		h.Response.InternalError(c, "查询语音失败", err.Error())
		return
	}

	_, authenticated := GetUserFromContext(c)
	req.Authenticated = authenticated

	if !services.CanSynthesize(entry, authenticated) {
		h.Response.Error(c, 401, ErrorPremiumVoiceLocked, "Premium voices require authentication")
		return
	}

	start := time.Now()
	result := h.VoiceService.GenerateVoice(c.Request.Context(), req)
	utils.NewAPIMetrics().RecordGeneration("voice", result.Provider, time.Since(start))

	BroadcastActivity("voice_generated", map[string]interface{}{
		"synthesis_id": result.ID,
		"script_id":    result.ScriptID,
		"provider":     result.Provider,
	})

	h.Response.Success(c, result)
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	h.Response.Success(c, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// Stats 返回运行指标快照
func (h *Handler) Stats(c *gin.Context) {
	h.Response.Success(c, gin.H{
		"metrics":   utils.GetMetricsCollector().GetMetrics(),
		"websocket": activityHub.GetStatus(),
	})
}
