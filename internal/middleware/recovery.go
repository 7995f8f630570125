package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// NewRecoveryMiddleware 는 핸들러의 panic 을 500 응답으로 바꾸는 미들웨어를
// 생성한다. 어떤 요청 경로에서 panic 이 나도 서버 프로세스는 죽지 않는다.
func NewRecoveryMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer recoverPanic(w, r)
			next.ServeHTTP(w, r)
		})
	}
}

func recoverPanic(w http.ResponseWriter, r *http.Request) {
	rec := recover()
	if rec == nil {
		return
	}
	// http.ErrAbortHandler 는 net/http 가 의도한 연결 중단 신호라 그대로 다시 던진다
	if rec == http.ErrAbortHandler {
		panic(rec)
	}

	slog.Error("panic 을 복구했습니다",
		slog.Any("panic", rec),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(debug.Stack())),
	)
	WriteInternalServerError(w)
}
