// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Corphon/ClipForge/internal/api"
	"github.com/Corphon/ClipForge/internal/app"
	"github.com/Corphon/ClipForge/internal/config"

	// 提供商通过init注册，入口处集中引入
	_ "github.com/Corphon/ClipForge/internal/llm/providers/google"
	_ "github.com/Corphon/ClipForge/internal/llm/providers/openai"
	_ "github.com/Corphon/ClipForge/internal/tts/providers/elevenlabs"
	_ "github.com/Corphon/ClipForge/internal/tts/providers/google"
	_ "github.com/Corphon/ClipForge/internal/tts/providers/mock"
	_ "github.com/Corphon/ClipForge/internal/tts/providers/openai"
)

func main() {
	log.Println("启动 ClipForge 生成服务...")

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	log.Printf("配置加载完成，端口: %s", cfg.Port)

	// 2. 初始化日志系统
	if err := app.InitLogging(cfg.LogDir); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}

	// 3. 初始化鉴权
	if err := api.InitializeAuth(cfg); err != nil {
		log.Fatalf("初始化鉴权失败: %v", err)
	}

	// 4. 初始化所有服务
	if err := app.InitServices(cfg); err != nil {
		log.Fatalf("初始化服务失败: %v", err)
	}

	// 5. 设置路由
	router, err := api.SetupRouter(cfg)
	if err != nil {
		log.Fatalf("设置路由失败: %v", err)
	}

	log.Printf("服务器启动在端口 %s", cfg.Port)
	runWithGracefulShutdown(router, cfg.Port)
}

// runWithGracefulShutdown 启动HTTP服务并在收到信号后优雅关闭
func runWithGracefulShutdown(router *gin.Engine, port string) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务器强制关闭: %v", err)
	}

	log.Println("服务器已关闭")
}
