// internal/api/auth_middleware.go
package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Corphon/ClipForge/internal/auth"
	"github.com/Corphon/ClipForge/internal/config"
	"github.com/Corphon/ClipForge/internal/utils"
)

var tokenConfig *auth.TokenConfig

// InitializeAuth initializes the authentication system with config
func InitializeAuth(cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	var secret []byte
	if cfg.AuthSecret != "" {
		secret = []byte(cfg.AuthSecret)
	} else if cfg.DebugMode {
		// Consistent key during development to avoid session invalidation on restart
		secret = []byte("dev_auth_key_for_testing_purposes_only_")
		utils.GetLogger().Warn("开发模式下使用固定认证密钥，生产环境请通过环境变量设置 AUTH_SECRET", nil)
	} else {
		generated, err := auth.GenerateSecureKey(32)
		if err != nil {
			return fmt.Errorf("failed to generate auth key: %w", err)
		}
		secret = generated
	}

	// Ensure the secret is exactly 32 bytes
	if len(secret) < 32 {
		padded := make([]byte, 32)
		copy(padded, secret)
		secret = padded
	} else if len(secret) > 32 {
		secret = secret[:32]
	}

	tokenConfig = &auth.TokenConfig{
		Secret:     secret,
		Expiration: 24 * time.Hour,
	}

	return nil
}

// AuthMiddleware provides optional authentication for API endpoints
// 缺失或非法的令牌不拒绝请求，只是把调用方当作未认证的游客
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if token == "" {
			c.Set("user_id", "guest")
			c.Set("user_authenticated", false)
			c.Next()
			return
		}

		parsedToken, err := auth.ParseToken(token, tokenConfig)
		if err != nil {
			utils.GetLogger().Debug("无效令牌，降级为游客", map[string]interface{}{"error": err.Error()})
			c.Set("user_id", "guest")
			c.Set("user_authenticated", false)
			c.Set("auth_error", err.Error())
			c.Next()
			return
		}

		c.Set("user_id", parsedToken.UserID)
		c.Set("user_authenticated", true)
		c.Set("user_premium", parsedToken.IsPremium())

		c.Next()
	}
}

// GenerateUserToken creates an authentication token for a user
func GenerateUserToken(userID, tier string) (string, error) {
	if tokenConfig == nil {
		return "", fmt.Errorf("auth not initialized")
	}

	return auth.GenerateToken(userID, tier, tokenConfig)
}

// GetUserFromContext retrieves the caller identity from the context
func GetUserFromContext(c *gin.Context) (string, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		return "", false
	}

	return userID, c.GetBool("user_authenticated")
}
