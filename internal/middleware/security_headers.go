package middleware

import "net/http"

// NewSecurityHeadersMiddleware 는 JSON API 서버에 맞춘 보안 응답 헤더를 붙이는
// 미들웨어를 반환한다. 이 서버는 HTML 을 서빙하지 않으므로 CSP 는 모든 리소스
// 로드를 차단하고, 프레임 삽입도 금지한다.
func NewSecurityHeadersMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			// 세션 쿠키가 실리는 응답이 중간 캐시에 남으면 안 된다
			h.Set("Cache-Control", "no-store")
			next.ServeHTTP(w, r)
		})
	}
}
