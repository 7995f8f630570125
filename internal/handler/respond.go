package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bloter/newsroom/internal/middleware"
	"github.com/bloter/newsroom/internal/model"
)

// writeJSON 은 JSON 응답을 쓴다.
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// handleServiceError 는 서비스 계층이 반환한 에러를 적절한 HTTP 스테이터스 코드로 변환한다.
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError 이외의 에러는 내부 서버 에러로 취급한다
	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus 는 APIError 코드를 HTTP 스테이터스 코드에 매핑한다.
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeEmptyContent, model.ErrCodeInvalidTitleMode, model.ErrCodeInvalidURL:
		return http.StatusBadRequest
	case model.ErrCodeRequestInFlight:
		return http.StatusConflict
	case model.ErrCodeProfileNotApproved, model.ErrCodeSSRFBlocked:
		return http.StatusForbidden
	case model.ErrCodeEmptyAIResponse, model.ErrCodeAIResponseInvalid, model.ErrCodeAICallFailed, model.ErrCodeFetchFailed:
		return http.StatusBadGateway
	case model.ErrCodeNotConfigured:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeInvalidRequestBody 는 요청 바디의 JSON 파싱 실패 응답을 쓴다.
func writeInvalidRequestBody(w http.ResponseWriter) {
	middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     "INVALID_REQUEST",
		Message:  "요청 바디의 해석에 실패했습니다.",
		Category: "validation",
		Action:   "올바른 JSON 형식으로 요청해 주세요.",
	})
}
