// Package app 는 애플리케이션의 초기화와 기동을 담당한다.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/bloter/newsroom/internal/ai"
	"github.com/bloter/newsroom/internal/article"
	"github.com/bloter/newsroom/internal/auth"
	"github.com/bloter/newsroom/internal/config"
	"github.com/bloter/newsroom/internal/database"
	"github.com/bloter/newsroom/internal/handler"
	"github.com/bloter/newsroom/internal/logger"
	"github.com/bloter/newsroom/internal/metrics"
	"github.com/bloter/newsroom/internal/middleware"
	"github.com/bloter/newsroom/internal/profile"
	"github.com/bloter/newsroom/internal/repository"
	"github.com/bloter/newsroom/internal/security"
	"github.com/bloter/newsroom/internal/studio"
	"github.com/bloter/newsroom/internal/title"
)

// Init 는 애플리케이션의 초기화를 수행한다.
// 환경 변수에서 Config 를 읽어들이고 JSON 구조화 로그를 설정한다.
// writer 가 지정된 경우 로그 출력처로 해당 writer 를 사용한다.
func Init(w io.Writer) (*config.Config, error) {
	// 1. 로그 초기화(설정 읽기 전에 로그를 사용할 수 있게 한다)
	logger.SetupDefault(w)

	// 2. 환경 변수에서 설정을 읽어들인다
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run 은 애플리케이션의 메인 엔트리 포인트.
// 커맨드라인 인수에서 서브커맨드를 해석해 대응하는 모드로 기동한다.
// args 에는 os.Args[1:] 을 넘긴다.
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck 는 경량 서브커맨드이므로 풀 초기화를 건너뛴다
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// newServer 는 전 의존 관계를 와이어링한 HTTP 서버를 구성한다.
// 반환되는 cleanup 은 서버 종료 후에 호출한다.
//
// 외부 서비스의 자격 증명 누락은 기동 실패가 아니라 축퇴 모드로 처리한다:
//   - DB 미설정 → 인메모리 스토어(재기동 시 세션과 프로필이 소실된다)
//   - OAuth 미설정 → Google 로그인은 NOT_CONFIGURED, 게스트 입장은 동작
//   - Gemini 미설정 → 편집 호출이 호출 단위로 NOT_CONFIGURED 를 반환
func newServer(cfg *config.Config) (*http.Server, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// 1. 프로필/세션 스토어
	var profileRepo repository.ProfileRepository
	var sessionRepo repository.SessionRepository

	if cfg.DatabaseConfigured() {
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		cleanups = append(cleanups, func() { db.Close() })

		if err := db.Ping(); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		slog.Info("database connection established")
		profileRepo = repository.NewPostgresProfileRepo(db)
		sessionRepo = repository.NewPostgresSessionRepo(db)
	} else {
		slog.Warn("DATABASE_URL is not set, falling back to in-memory stores")
		profileRepo = repository.NewMemoryProfileRepo()
		sessionRepo = repository.NewMemorySessionRepo()
	}

	// 2. OAuth 제공자(미설정이면 nil 인 채로 둔다)
	var oauthProvider auth.OAuthProvider
	if cfg.AuthConfigured() {
		oauthProvider = auth.NewGoogleOAuthProvider(auth.GoogleOAuthConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
		})
	} else {
		slog.Warn("Google OAuth credentials are not set, only guest login is available")
	}

	// 3. Gemini 클라이언트(미설정이면 nil 인 채로 둔다)
	var editorialAI ai.EditorialAI
	if cfg.AIConfigured() {
		editorialAI = ai.NewGeminiClient(
			cfg.GeminiAPIKey, cfg.GeminiEndpoint,
			cfg.CorrectionModel, cfg.TitleModel,
			slog.Default(),
		)
	} else {
		slog.Warn("GEMINI_API_KEY is not set, editorial AI calls will be rejected")
	}

	// 4. 메트릭
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 5. 도메인 서비스
	profileService := profile.NewService(profileRepo, cfg.AdminEmail, cfg.AdminName)
	authService := auth.NewService(
		oauthProvider, profileService, profileRepo, sessionRepo,
		auth.ServiceConfig{SessionMaxAge: cfg.SessionMaxAge},
	)

	studioService := studio.NewService(editorialAI, collector)
	titleService := title.NewService(editorialAI, collector, cfg.TitleTone)

	ssrfGuard := security.NewSSRFGuard()
	sanitizer := security.NewTextSanitizer()
	articleService := article.NewService(
		ssrfGuard,
		ssrfGuard.NewSafeClient(cfg.ImportTimeout, cfg.ImportMaxSize),
		sanitizer, collector, cfg.ImportMaxSize,
	)

	// 6. 레이트 리미터(req/min 단위의 설정을 req/sec 으로 변환)
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	rateLimiterCfg.AIRate = rate.Limit(float64(cfg.RateLimitAI) / 60.0)
	rateLimiterCfg.AIBurst = cfg.RateLimitAI
	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	cleanups = append(cleanups, rateLimiter.Stop)

	// 7. 라우터 구성
	router := handler.NewRouter(&handler.RouterDeps{
		SessionFinder:     sessionRepo,
		ProfileLoader:     authService,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		CSRFConfig: middleware.CSRFConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
		},
		Logger: slog.Default(),

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			BaseURL:       cfg.BaseURL,
			CookieDomain:  cfg.CookieDomain,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},

		StudioService:  studioService,
		TitleService:   titleService,
		ArticleService: articleService,

		Collector:      collector,
		MetricsHandler: metrics.Handler(registry),
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second, // AI 호출(최대 60초)보다 길게 잡는다
		IdleTimeout:  60 * time.Second,
	}

	return server, cleanup, nil
}

// runServe 는 API 서버 모드로 기동한다.
// 전 의존 관계를 와이어링하고 HTTP 서버를 기동한다.
// SIGINT 또는 SIGTERM 시그널을 수신하면 그레이스풀 셧다운을 수행한다.
func runServe(cfg *config.Config) error {
	server, cleanup, err := newServer(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate 는 데이터베이스 마이그레이션을 실행한다.
// 미적용 마이그레이션 전체를 순서대로 적용한다.
func runMigrate(cfg *config.Config) error {
	if !cfg.DatabaseConfigured() {
		return fmt.Errorf("DATABASE_URL is required for migration")
	}

	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck 는 헬스체크를 실행한다.
// distroless 환경에서의 Docker 헬스체크용 서브커맨드.
// /health 엔드포인트에 HTTP 요청을 보내 결과를 반환한다.
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL 은 데이터베이스 URL 의 인증 정보를 마스킹한다.
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
