// internal/app/app.go
package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/Corphon/ClipForge/internal/config"
	"github.com/Corphon/ClipForge/internal/di"
	"github.com/Corphon/ClipForge/internal/services"
	"github.com/Corphon/ClipForge/internal/utils"
)

// InitLogging 初始化日志系统，日志文件按天滚动
func InitLogging(logDir string) error {
	logFile := filepath.Join(logDir, fmt.Sprintf("clipforge_%s.log", time.Now().Format("2006-01-02")))

	if err := utils.InitLogger(logFile); err != nil {
		return fmt.Errorf("初始化日志系统失败: %w", err)
	}

	return nil
}

// InitServices 按依赖顺序创建并注册所有服务
// 路由层只从容器取服务，不自行创建
func InitServices(cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("配置未加载")
	}

	container := di.GetContainer()

	container.Register("config", cfg)
	container.Register("script", services.NewScriptService())
	container.Register("demo", services.NewDemoService())
	container.Register("voice", services.NewVoiceService(cfg.VoiceCacheTTL))

	utils.GetLogger().Info("服务初始化完成", map[string]interface{}{
		"voice_cache_ttl": cfg.VoiceCacheTTL.String(),
		"has_credentials": config.CurrentCredentials().HasAny(),
	})

	return nil
}
