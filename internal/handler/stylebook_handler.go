package handler

import (
	"net/http"

	"github.com/bloter/newsroom/internal/model"
	"github.com/bloter/newsroom/internal/stylebook"
)

// stylebookResponse 는 스타일북 조회의 API 응답.
type stylebookResponse struct {
	Rules []model.StyleRule `json:"rules"`
}

// GetStylebook 은 기본 스타일북 규칙 일람을 반환한다.
// 규칙은 프로세스 전역의 읽기 전용 값이다.
// GET /api/stylebook
func GetStylebook(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stylebookResponse{Rules: stylebook.Rules()})
}
