// internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 存储应用配置
type Config struct {
	Port             string
	OpenAIAPIKey     string
	GoogleAIAPIKey   string
	ElevenLabsAPIKey string
	VoiceCacheTTL    time.Duration
	AuthSecret       string
	LogDir           string
	DebugMode        bool
}

// Credentials 各提供商凭据的快照
// 语音目录缓存用它来检测凭据轮换：快照不一致时无条件丢弃缓存
type Credentials struct {
	OpenAI     string
	Google     string
	ElevenLabs string
}

// HasAny 是否配置了任意一个提供商凭据
func (c Credentials) HasAny() bool {
	return c.OpenAI != "" || c.Google != "" || c.ElevenLabs != ""
}

// HasText 是否配置了任意一个文本生成提供商凭据
func (c Credentials) HasText() bool {
	return c.OpenAI != "" || c.Google != ""
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	// 尝试加载.env文件（可选）
	godotenv.Load()

	config := &Config{
		Port:             getEnv("PORT", "8080"),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		GoogleAIAPIKey:   googleKeyFromEnv(),
		ElevenLabsAPIKey: getEnv("ELEVENLABS_API_KEY", ""),
		VoiceCacheTTL:    getEnvMillis("VOICE_CACHE_TTL", time.Hour),
		AuthSecret:       getEnv("AUTH_SECRET", ""),
		LogDir:           getEnvPath("LOG_DIR", "logs"),
		DebugMode:        getEnvBool("DEBUG_MODE", true),
	}

	if !CurrentCredentials().HasAny() {
		// 只记录警告，不返回错误：无凭据时全部走离线兜底路径
		log.Println("警告: 未设置任何AI提供商密钥，脚本与语音生成将使用离线模式")
	}

	return config, nil
}

// CurrentCredentials 每次调用都重新读取环境变量
// 与快照比较即可发现运行期间的凭据轮换
func CurrentCredentials() Credentials {
	return Credentials{
		OpenAI:     os.Getenv("OPENAI_API_KEY"),
		Google:     googleKeyFromEnv(),
		ElevenLabs: os.Getenv("ELEVENLABS_API_KEY"),
	}
}

// googleKeyFromEnv GOOGLE_AI_API_KEY 优先，GEMINI_API_KEY 作为别名
func googleKeyFromEnv() string {
	if key := os.Getenv("GOOGLE_AI_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("GEMINI_API_KEY")
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvPath 获取环境变量表示的路径，如果不存在则返回默认值
func getEnvPath(key, defaultValue string) string {
	path := getEnv(key, defaultValue)

	// 确保目录存在
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			log.Printf("警告: 创建目录失败 %s: %v", path, err)
		}
	}

	return path
}

// getEnvBool 获取布尔类型环境变量
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value == "true" || value == "1" || value == "yes"
}

// getEnvMillis 获取以毫秒为单位的时长环境变量，非法或非正值回退到默认值
func getEnvMillis(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	ms, err := strconv.Atoi(value)
	if err != nil || ms <= 0 {
		log.Printf("警告: %s 取值非法 (%q)，使用默认值 %v", key, value, defaultValue)
		return defaultValue
	}

	return time.Duration(ms) * time.Millisecond
}
