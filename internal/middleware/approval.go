package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/bloter/newsroom/internal/model"
)

// ProfileLoader 는 세션에서 현재 프로필을 얻는 인터페이스.
// auth.Service 가 구현한다.
type ProfileLoader interface {
	GetCurrentProfile(ctx context.Context, sessionID string) (*model.UserProfile, error)
}

// NewApprovalMiddleware 는 승인된 프로필만 통과시키는 미들웨어를 반환한다.
// PENDING/REJECTED 프로필의 요청은 403 으로 거부된다.
// 통과한 요청의 컨텍스트에는 프로필이 주입된다.
// 세션 미들웨어 뒤에 배치해야 한다.
func NewApprovalMiddleware(loader ProfileLoader) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := SessionFromContext(r.Context())
			if err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			profile, err := loader.GetCurrentProfile(r.Context(), session.ID)
			if err != nil {
				var apiErr *model.APIError
				if asAPIError(err, &apiErr) && apiErr.Code == model.ErrCodeUnauthorized {
					WriteErrorResponse(w, http.StatusUnauthorized, apiErr)
					return
				}
				slog.Error("프로필 조회에 실패했습니다",
					slog.String("email", session.Email),
					slog.String("error", err.Error()),
				)
				WriteInternalServerError(w)
				return
			}

			if !profile.IsApproved() {
				WriteErrorResponse(w, http.StatusForbidden, model.NewProfileNotApprovedError(profile.Status))
				return
			}

			ctx := ContextWithProfile(r.Context(), profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
