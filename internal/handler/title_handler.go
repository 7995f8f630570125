package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bloter/newsroom/internal/middleware"
	"github.com/bloter/newsroom/internal/model"
	"github.com/bloter/newsroom/internal/title"
)

// TitleServiceInterface 는 제목 추천 핸들러가 필요로 하는 서비스 인터페이스.
type TitleServiceInterface interface {
	// Suggest 는 입력 단계(PRE/POST)에 맞춘 제목 후보를 생성한다.
	Suggest(ctx context.Context, userKey, input string, mode model.TitleMode) (*model.TitleSuggestions, error)
}

// TitleHandler 는 제목 추천의 HTTP 핸들러.
type TitleHandler struct {
	service TitleServiceInterface
}

// NewTitleHandler 는 TitleHandler 를 생성한다.
func NewTitleHandler(service TitleServiceInterface) *TitleHandler {
	return &TitleHandler{service: service}
}

// titleSuggestionRequest 는 제목 추천 요청의 바디.
type titleSuggestionRequest struct {
	Input string `json:"input"`
	Mode  string `json:"mode"`
}

// Suggest 는 제목 추천 요청을 처리한다.
// POST /api/titles/suggestions
func (h *TitleHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	userKey, err := middleware.UserKeyFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req titleSuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	mode, err := title.ParseMode(req.Mode)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	result, err := h.service.Suggest(r.Context(), userKey, req.Input, mode)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
