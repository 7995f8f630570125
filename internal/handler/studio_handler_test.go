package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bloter/newsroom/internal/middleware"
	"github.com/bloter/newsroom/internal/model"
)

// mockStudioService 는 교열 서비스의 목.
type mockStudioService struct {
	correctFunc func(ctx context.Context, userKey, content string) (*model.CorrectionResult, error)
}

func (m *mockStudioService) Correct(ctx context.Context, userKey, content string) (*model.CorrectionResult, error) {
	return m.correctFunc(ctx, userKey, content)
}

func correctionHTTPRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/studio/corrections", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(middleware.ContextWithSession(req.Context(), testSession("session-abc")))
}

func TestCorrect_ReturnsResult(t *testing.T) {
	service := &mockStudioService{
		correctFunc: func(ctx context.Context, userKey, content string) (*model.CorrectionResult, error) {
			if userKey != "reporter@bloter.net" {
				t.Errorf("userKey = %q", userKey)
			}
			if content != "수정 전 문장." {
				t.Errorf("content = %q", content)
			}
			return &model.CorrectionResult{
				Corrected: "수정 후 문장.",
				Explanations: []model.Explanation{
					{Type: "교정", Target: "전", Change: "후", Reason: "예시", Source: "기본 규칙"},
				},
				Citations: []model.Citation{},
			}, nil
		},
	}
	h := NewStudioHandler(service)

	rec := httptest.NewRecorder()
	h.Correct(rec, correctionHTTPRequest(`{"content":"수정 전 문장."}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var result model.CorrectionResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if result.Corrected != "수정 후 문장." {
		t.Errorf("Corrected = %q", result.Corrected)
	}
	if len(result.Explanations) != 1 {
		t.Errorf("len(Explanations) = %d, want 1", len(result.Explanations))
	}
}

// 게스트 세션의 사용자 키는 공유 이메일이 아니라 세션 ID 다
func TestCorrect_GuestSessionKeyIsSessionID(t *testing.T) {
	var gotKey string
	service := &mockStudioService{
		correctFunc: func(ctx context.Context, userKey, content string) (*model.CorrectionResult, error) {
			gotKey = userKey
			return &model.CorrectionResult{Corrected: "완료"}, nil
		},
	}
	h := NewStudioHandler(service)

	guest := &model.Session{
		ID:        "guest-session-1",
		Email:     "guest@numbers.ai",
		Name:      "테스트 게스트",
		Guest:     true,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	req := httptest.NewRequest(http.MethodPost, "/api/studio/corrections", strings.NewReader(`{"content":"본문"}`))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.ContextWithSession(req.Context(), guest))

	rec := httptest.NewRecorder()
	h.Correct(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if gotKey != "guest-session-1" {
		t.Errorf("userKey = %q, want guest-session-1", gotKey)
	}
}

func TestCorrect_WithoutSessionIs401(t *testing.T) {
	h := NewStudioHandler(&mockStudioService{})

	req := httptest.NewRequest(http.MethodPost, "/api/studio/corrections", strings.NewReader(`{"content":"x"}`))
	rec := httptest.NewRecorder()
	h.Correct(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestCorrect_InvalidBodyIs400(t *testing.T) {
	h := NewStudioHandler(&mockStudioService{})

	rec := httptest.NewRecorder()
	h.Correct(rec, correctionHTTPRequest(`{not json`))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// 서비스의 APIError 는 코드에 맞는 스테이터스로 매핑된다
func TestCorrect_ServiceErrorsMapToStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"empty content", model.NewEmptyContentError(), http.StatusBadRequest},
		{"request in flight", model.NewRequestInFlightError(), http.StatusConflict},
		{"empty ai response", model.NewEmptyAIResponseError(), http.StatusBadGateway},
		{"ai call failed", model.NewAICallFailedError(), http.StatusBadGateway},
		{"not configured", model.NewNotConfiguredError("GEMINI_API_KEY"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mockStudioService{
				correctFunc: func(ctx context.Context, userKey, content string) (*model.CorrectionResult, error) {
					return nil, tt.err
				},
			}
			h := NewStudioHandler(service)

			rec := httptest.NewRecorder()
			h.Correct(rec, correctionHTTPRequest(`{"content":"본문"}`))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body middleware.ErrorResponseBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to parse error body: %v", err)
			}
			if body.Code == "" || body.Message == "" {
				t.Error("error body must carry code and message")
			}
		})
	}
}
