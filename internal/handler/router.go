package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bloter/newsroom/internal/metrics"
	"github.com/bloter/newsroom/internal/middleware"
)

// RouterDeps 는 NewRouter 에 필요한 의존 관계를 모은 구조체.
type RouterDeps struct {
	// 미들웨어 의존
	SessionFinder     middleware.SessionFinder
	ProfileLoader     middleware.ProfileLoader
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig
	Logger            *slog.Logger

	// 인증
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// 편집 기능
	StudioService  StudioServiceInterface
	TitleService   TitleServiceInterface
	ArticleService ArticleServiceInterface

	// 운영
	Collector      metrics.MetricsCollector
	MetricsHandler http.Handler
}

// NewRouter 는 전체 API 엔드포인트의 라우팅과 미들웨어 체인을 구성한 chi.Router 를 반환한다.
//
// 미들웨어 스택의 실행 순서:
//
//	Recovery → SecurityHeaders → CORS → (API) Session → Logging → RateLimit → CSRF
//
// 인증 라우트(/auth/*)는 세션 미들웨어 체인의 바깥에 둔다.
// AI 호출 라우트는 추가로 AI 전용 레이트 제한과 승인 검사를 거친다.
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService, deps.Collector, deps.AuthConfig)
	studioHandler := NewStudioHandler(deps.StudioService)
	titleHandler := NewTitleHandler(deps.TitleService)
	articleHandler := NewArticleHandler(deps.ArticleService)

	// --- 인증 불요 라우트 ---

	r.Get("/health", healthCheck)
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// 인증 라우트(OAuth 플로와 게스트 입장)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))

		r.Route("/auth", func(r chi.Router) {
			r.Get("/google/login", authHandler.Login)
			r.Get("/google/callback", authHandler.Callback)
			r.Post("/guest", authHandler.Guest)
			r.Post("/logout", authHandler.Logout)
		})
	})

	// --- 세션이 필요한 라우트 ---
	// 미들웨어 스택: Session → Logging → RateLimit(General) → CSRF
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
		r.Use(deps.RateLimiter.GeneralMiddleware())
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

		// 승인 대기 중에도 접근할 수 있는 라우트
		r.Get("/api/me", authHandler.Me)
		r.Get("/api/stylebook", GetStylebook)
		r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

		// 승인된 프로필만 접근할 수 있는 라우트
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewApprovalMiddleware(deps.ProfileLoader))

			// AI 호출은 모델 비용이 들기 때문에 전용 레이트 제한을 추가한다
			r.With(deps.RateLimiter.AIMiddleware()).
				Post("/api/studio/corrections", studioHandler.Correct)
			r.With(deps.RateLimiter.AIMiddleware()).
				Post("/api/titles/suggestions", titleHandler.Suggest)

			r.Post("/api/articles/import", articleHandler.Import)
		})
	})

	return r
}

// healthCheck 는 서버 생존 확인용 엔드포인트.
// GET /health
func healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
