// Package middleware 는 HTTP 미들웨어를 제공한다.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bloter/newsroom/internal/model"
)

// SessionCookieName 은 세션 ID 를 담는 쿠키의 이름.
const SessionCookieName = "session_id"

// contextKey 는 컨텍스트에 값을 담기 위한 타입 안전 키.
type contextKey string

var (
	// sessionContextKey 는 요청 컨텍스트에 세션을 담는 키.
	sessionContextKey = contextKey("session")
	// profileContextKey 는 요청 컨텍스트에 프로필을 담는 키.
	profileContextKey = contextKey("profile")
)

// SessionFinder 는 세션 검색에 필요한 인터페이스.
// repository.SessionRepository 의 부분집합으로 정의한다.
type SessionFinder interface {
	FindByID(ctx context.Context, id string) (*model.Session, error)
}

// NewSessionMiddleware 는 HTTP Only 쿠키에서 세션을 읽어 유효성을 검증하는
// 미들웨어를 반환한다. 검증된 세션을 요청 컨텍스트에 주입한다.
// 미인증 요청에는 401 을 반환한다.
func NewSessionMiddleware(sessionFinder SessionFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. 쿠키에서 세션 ID 를 읽는다
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			// 2. 세션 유효성 검증
			session, err := sessionFinder.FindByID(r.Context(), cookie.Value)
			if err != nil {
				slog.Error("세션 조회에 실패했습니다",
					slog.String("error", err.Error()),
				)
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}
			if session == nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			// 3. 검증된 세션을 컨텍스트에 주입
			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext 는 요청 컨텍스트에서 세션을 얻는다.
// 세션 미들웨어를 통과한 요청에서만 유효하다.
func SessionFromContext(ctx context.Context) (*model.Session, error) {
	session, ok := ctx.Value(sessionContextKey).(*model.Session)
	if !ok || session == nil {
		return nil, fmt.Errorf("session not found in context")
	}
	return session, nil
}

// EmailFromContext 는 요청 컨텍스트에서 인증된 사용자 email 을 얻는다.
func EmailFromContext(ctx context.Context) (string, error) {
	session, err := SessionFromContext(ctx)
	if err != nil {
		return "", err
	}
	return session.Email, nil
}

// UserKeyFromContext 는 요청 컨텍스트의 세션에서 사용자 식별 키를 얻는다.
// 일반 사용자는 email, 게스트는 세션 ID 가 키가 된다.
func UserKeyFromContext(ctx context.Context) (string, error) {
	session, err := SessionFromContext(ctx)
	if err != nil {
		return "", err
	}
	return session.UserKey(), nil
}

// ContextWithSession 은 컨텍스트에 세션을 주입한다.
// 테스트 등 미들웨어 밖에서 컨텍스트를 만들 때 사용한다.
func ContextWithSession(ctx context.Context, session *model.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// ProfileFromContext 는 요청 컨텍스트에서 프로필을 얻는다.
// 승인 미들웨어를 통과한 요청에서만 유효하다.
func ProfileFromContext(ctx context.Context) (*model.UserProfile, error) {
	profile, ok := ctx.Value(profileContextKey).(*model.UserProfile)
	if !ok || profile == nil {
		return nil, fmt.Errorf("profile not found in context")
	}
	return profile, nil
}

// ContextWithProfile 은 컨텍스트에 프로필을 주입한다.
func ContextWithProfile(ctx context.Context, profile *model.UserProfile) context.Context {
	return context.WithValue(ctx, profileContextKey, profile)
}
