package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bloter/newsroom/internal/middleware"
	"github.com/bloter/newsroom/internal/model"
)

// mockTitleService 는 제목 추천 서비스의 목.
type mockTitleService struct {
	suggestFunc func(ctx context.Context, userKey, input string, mode model.TitleMode) (*model.TitleSuggestions, error)
}

func (m *mockTitleService) Suggest(ctx context.Context, userKey, input string, mode model.TitleMode) (*model.TitleSuggestions, error) {
	return m.suggestFunc(ctx, userKey, input, mode)
}

func titleHTTPRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/titles/suggestions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(middleware.ContextWithSession(req.Context(), testSession("session-abc")))
}

func TestSuggest_ReturnsTitles(t *testing.T) {
	service := &mockTitleService{
		suggestFunc: func(ctx context.Context, userKey, input string, mode model.TitleMode) (*model.TitleSuggestions, error) {
			if mode != model.TitleModePost {
				t.Errorf("mode = %q, want POST", mode)
			}
			return &model.TitleSuggestions{
				Titles:    []string{"제목 후보 1", "제목 후보 2"},
				Citations: []model.Citation{},
			}, nil
		},
	}
	h := NewTitleHandler(service)

	rec := httptest.NewRecorder()
	h.Suggest(rec, titleHTTPRequest(`{"input":"완성된 기사 본문","mode":"POST"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var result model.TitleSuggestions
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if len(result.Titles) != 2 {
		t.Errorf("len(Titles) = %d, want 2", len(result.Titles))
	}
}

func TestSuggest_InvalidModeIs400(t *testing.T) {
	service := &mockTitleService{
		suggestFunc: func(ctx context.Context, userKey, input string, mode model.TitleMode) (*model.TitleSuggestions, error) {
			t.Fatal("Suggest must not run for an invalid mode")
			return nil, nil
		},
	}
	h := NewTitleHandler(service)

	rec := httptest.NewRecorder()
	h.Suggest(rec, titleHTTPRequest(`{"input":"본문","mode":"DRAFT"}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var body middleware.ErrorResponseBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse error body: %v", err)
	}
	if body.Code != model.ErrCodeInvalidTitleMode {
		t.Errorf("Code = %q", body.Code)
	}
}

func TestSuggest_WithoutSessionIs401(t *testing.T) {
	h := NewTitleHandler(&mockTitleService{})

	req := httptest.NewRequest(http.MethodPost, "/api/titles/suggestions", strings.NewReader(`{"input":"x","mode":"PRE"}`))
	rec := httptest.NewRecorder()
	h.Suggest(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestSuggest_InvalidBodyIs400(t *testing.T) {
	h := NewTitleHandler(&mockTitleService{})

	rec := httptest.NewRecorder()
	h.Suggest(rec, titleHTTPRequest(`{broken`))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
