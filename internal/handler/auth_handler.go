// Package handler 는 HTTP 핸들러를 제공한다.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/bloter/newsroom/internal/auth"
	"github.com/bloter/newsroom/internal/metrics"
	"github.com/bloter/newsroom/internal/middleware"
	"github.com/bloter/newsroom/internal/model"
)

const oauthStateCookie = "oauth_state"

// AuthServiceInterface 는 인증 핸들러가 필요로 하는 서비스 인터페이스.
type AuthServiceInterface interface {
	GetLoginURL(state string) (string, error)
	HandleCallback(ctx context.Context, code string) (*model.Session, *model.UserProfile, error)
	GuestLogin(ctx context.Context) (*model.Session, *model.UserProfile, error)
	Logout(ctx context.Context, sessionID string) error
	GetCurrentProfile(ctx context.Context, sessionID string) (*model.UserProfile, error)
}

// AuthHandlerConfig 는 인증 핸들러의 설정.
type AuthHandlerConfig struct {
	BaseURL       string
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // 세션 쿠키의 유효 기간(초)
}

// AuthHandler 는 OAuth 인증과 게스트 입장의 HTTP 핸들러.
type AuthHandler struct {
	service   AuthServiceInterface
	collector metrics.MetricsCollector
	config    AuthHandlerConfig
}

// NewAuthHandler 는 AuthHandler 를 생성한다.
func NewAuthHandler(service AuthServiceInterface, collector metrics.MetricsCollector, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service:   service,
		collector: collector,
		config:    config,
	}
}

// Login 은 Google OAuth 플로를 시작한다.
// GET /auth/google/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := auth.GenerateState()
	if err != nil {
		slog.Error("failed to generate oauth state", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	url, err := h.service.GetLoginURL(state)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// state 를 쿠키에 저장(CSRF 대책)
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10분
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// Callback 은 OAuth 콜백을 처리한다.
// GET /auth/google/callback?code=xxx&state=yyy
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	// 1. state 검증(CSRF 대책)
	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != state {
		slog.Warn("oauth state mismatch",
			slog.String("query_state", state),
		)
		http.Error(w, "invalid state parameter", http.StatusBadRequest)
		return
	}

	// state 쿠키를 삭제
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	// 2. 인가 코드 취득
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing authorization code", http.StatusBadRequest)
		return
	}

	// 3. 인증 처리(토큰 교환과 프로필 동기화)
	session, _, err := h.service.HandleCallback(r.Context(), code)
	if err != nil {
		slog.Error("oauth callback failed", slog.String("error", err.Error()))
		handleServiceError(w, err)
		return
	}

	h.setSessionCookie(w, session.ID)
	h.collector.RecordLogin("google")

	// 4. 프런트엔드로 리다이렉트
	http.Redirect(w, r, h.config.BaseURL, http.StatusTemporaryRedirect)
}

// Guest 는 게스트 입장을 처리한다.
// 프로필 스토어를 경유하지 않는 고정 신원의 세션을 발급한다.
// POST /auth/guest
func (h *AuthHandler) Guest(w http.ResponseWriter, r *http.Request) {
	session, profile, err := h.service.GuestLogin(r.Context())
	if err != nil {
		slog.Error("guest login failed", slog.String("error", err.Error()))
		handleServiceError(w, err)
		return
	}

	h.setSessionCookie(w, session.ID)
	h.collector.RecordLogin("guest")

	writeJSON(w, http.StatusOK, toProfileResponse(profile, true))
}

// Logout 은 세션을 파기한다.
// 세션 삭제가 실패해도 쿠키는 반드시 클리어한다.
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		if logoutErr := h.service.Logout(r.Context(), cookie.Value); logoutErr != nil {
			slog.Error("failed to logout", slog.String("error", logoutErr.Error()))
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	w.WriteHeader(http.StatusNoContent)
}

// Me 는 현재 로그인 사용자의 프로필을 반환한다.
// 승인 대기 중인 사용자도 자신의 상태를 조회할 수 있어야 하므로
// 승인 검사 미들웨어를 거치지 않는다.
// GET /api/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	profile, err := h.service.GetCurrentProfile(r.Context(), session.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(profile, session.Guest))
}

// setSessionCookie 는 세션 쿠키를 설정한다(HTTP Only).
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// profileResponse 는 프로필 정보의 API 응답.
type profileResponse struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Status string `json:"status"`
	Guest  bool   `json:"guest"`
}

// toProfileResponse 는 model.UserProfile 을 API 응답으로 변환한다.
func toProfileResponse(profile *model.UserProfile, guest bool) profileResponse {
	return profileResponse{
		ID:     profile.ID,
		Email:  profile.Email,
		Name:   profile.Name,
		Role:   string(profile.Role),
		Status: string(profile.Status),
		Guest:  guest,
	}
}
