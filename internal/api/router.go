// internal/api/router.go
package api

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/Corphon/ClipForge/internal/config"
	"github.com/Corphon/ClipForge/internal/di"
	"github.com/Corphon/ClipForge/internal/services"
)

// SetupRouter 配置HTTP路由
func SetupRouter(cfg *config.Config) (*gin.Engine, error) {
	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 只从容器获取服务，不在路由层创建新实例
	container := di.GetContainer()

	scriptService, ok := container.Get("script").(*services.ScriptService)
	if !ok {
		return nil, fmt.Errorf("脚本服务未正确初始化")
	}

	demoService, ok := container.Get("demo").(*services.DemoService)
	if !ok {
		return nil, fmt.Errorf("演示句服务未正确初始化")
	}

	voiceService, ok := container.Get("voice").(*services.VoiceService)
	if !ok {
		return nil, fmt.Errorf("语音服务未正确初始化")
	}

	handler := NewHandler(scriptService, demoService, voiceService)

	r := gin.Default()

	r.Use(corsMiddleware())
	r.Use(RequestIDMiddleware())
	r.Use(MetricsMiddleware())
	r.Use(AuthMiddleware())

	api := r.Group("/api")
	{
		api.POST("/generate-script", handler.GenerateScript)
		api.POST("/generate-demos", handler.GenerateDemoSentences)

		api.GET("/voices", handler.GetVoices)
		api.POST("/voice-preview", handler.PreviewVoice)
		api.POST("/generate-voice", handler.GenerateVoice)

		api.GET("/health", handler.Health)
		api.GET("/stats", handler.Stats)

		// 生成活动订阅
		api.GET("/ws/activity", handler.ActivityWebSocket)
	}

	return r, nil
}
