// Package config 는 환경 변수 기반 설정을 제공한다.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// 기본 관리자 설정. 사이트 소유자 계정은 환경 변수로 덮어쓸 수 있다.
const (
	defaultAdminEmail = "mrmoon@bloter.net"
	defaultAdminName  = "문병선"
)

// Config 는 애플리케이션 전체 설정을 보유한다.
// 기동 시 환경 변수에서 1회 읽어 이후 불변으로 취급한다.
//
// 외부 서비스 자격 증명(DB, OAuth, Gemini)은 필수가 아니다.
// 누락 시 기동을 실패시키지 않고 해당 기능만 "미설정" 모드로 축퇴한다:
// DB 미설정 → 인메모리 스토어, OAuth 미설정 → 게스트 입장만 허용,
// Gemini 미설정 → 편집 호출이 호출 단위 NOT_CONFIGURED 에러를 반환.
type Config struct {
	// Database
	DatabaseURL string

	// OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// Gemini
	GeminiAPIKey    string
	GeminiEndpoint  string
	CorrectionModel string
	TitleModel      string

	// Admin
	AdminEmail string
	AdminName  string

	// Editorial
	TitleTone string

	// Session
	SessionMaxAge int

	// Rate Limit
	RateLimitGeneral int
	RateLimitAI      int

	// Article Import
	ImportTimeout time.Duration
	ImportMaxSize int64

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string
}

// Load 는 환경 변수에서 Config 를 읽어들인다.
// 자격 증명 누락은 에러가 아니라 축퇴 모드로 처리하므로 기동이 실패하지 않는다.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = os.Getenv("GOOGLE_REDIRECT_URL")

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GeminiEndpoint = getEnvString("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com")
	cfg.CorrectionModel = getEnvString("GEMINI_CORRECTION_MODEL", "gemini-3-pro-preview")
	cfg.TitleModel = getEnvString("GEMINI_TITLE_MODEL", "gemini-3-flash-preview")

	cfg.AdminEmail = getEnvString("ADMIN_EMAIL", defaultAdminEmail)
	cfg.AdminName = getEnvString("ADMIN_NAME", defaultAdminName)

	cfg.TitleTone = getEnvString("TITLE_TONE", "신뢰감 있는 전문적인")

	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 86400)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitAI = getEnvInt("RATE_LIMIT_AI", 10)
	cfg.ImportTimeout = getEnvDuration("IMPORT_TIMEOUT", 10*time.Second)
	cfg.ImportMaxSize = getEnvInt64("IMPORT_MAX_SIZE", 2097152)

	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.BaseURL = getEnvString("BASE_URL", "http://localhost:8080")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

// DatabaseConfigured 는 프로필 스토어 접속 정보가 설정되어 있는지 여부를 반환한다.
func (c *Config) DatabaseConfigured() bool {
	return c.DatabaseURL != ""
}

// AuthConfigured 는 Google OAuth 자격 증명이 모두 설정되어 있는지 여부를 반환한다.
func (c *Config) AuthConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

// AIConfigured 는 Gemini API 키가 설정되어 있는지 여부를 반환한다.
func (c *Config) AIConfigured() bool {
	return c.GeminiAPIKey != ""
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
