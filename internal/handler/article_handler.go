package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bloter/newsroom/internal/model"
)

// ArticleServiceInterface 는 기사 가져오기 핸들러가 필요로 하는 서비스 인터페이스.
type ArticleServiceInterface interface {
	// Import 는 URL 에서 기사 본문을 가져와 정제한다.
	Import(ctx context.Context, rawURL string) (*model.ImportedArticle, error)
}

// ArticleHandler 는 기사 URL 가져오기의 HTTP 핸들러.
type ArticleHandler struct {
	service ArticleServiceInterface
}

// NewArticleHandler 는 ArticleHandler 를 생성한다.
func NewArticleHandler(service ArticleServiceInterface) *ArticleHandler {
	return &ArticleHandler{service: service}
}

// importRequest 는 기사 가져오기 요청의 바디.
type importRequest struct {
	URL string `json:"url"`
}

// Import 는 기사 URL 가져오기 요청을 처리한다.
// POST /api/articles/import
func (h *ArticleHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	article, err := h.service.Import(r.Context(), req.URL)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, article)
}
