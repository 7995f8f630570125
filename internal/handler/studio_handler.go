package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bloter/newsroom/internal/middleware"
	"github.com/bloter/newsroom/internal/model"
)

// StudioServiceInterface 는 교열 핸들러가 필요로 하는 서비스 인터페이스.
type StudioServiceInterface interface {
	// Correct 는 스타일북 규칙에 따라 본문을 교정/교열/윤문한다.
	Correct(ctx context.Context, userKey, content string) (*model.CorrectionResult, error)
}

// StudioHandler 는 교열 스튜디오의 HTTP 핸들러.
type StudioHandler struct {
	service StudioServiceInterface
}

// NewStudioHandler 는 StudioHandler 를 생성한다.
func NewStudioHandler(service StudioServiceInterface) *StudioHandler {
	return &StudioHandler{service: service}
}

// correctionRequest 는 교열 요청의 바디.
type correctionRequest struct {
	Content string `json:"content"`
}

// Correct 는 교열 요청을 처리한다.
// POST /api/studio/corrections
func (h *StudioHandler) Correct(w http.ResponseWriter, r *http.Request) {
	userKey, err := middleware.UserKeyFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req correctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	result, err := h.service.Correct(r.Context(), userKey, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
