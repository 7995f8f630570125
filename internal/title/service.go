// Package title 은 제목 추천의 도메인 로직을 제공한다.
package title

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bloter/newsroom/internal/ai"
	"github.com/bloter/newsroom/internal/inflight"
	"github.com/bloter/newsroom/internal/metrics"
	"github.com/bloter/newsroom/internal/model"
	"github.com/bloter/newsroom/internal/stylebook"
)

// Service 는 제목 추천의 서비스 계층.
// 사용자 단위로 동시에 하나의 추천만 허용한다.
type Service struct {
	editorialAI ai.EditorialAI
	guard       *inflight.Guard
	collector   metrics.MetricsCollector
	tone        string
}

// NewService 는 Service 의 새 인스턴스를 생성한다.
// tone 은 모든 추천 요청에 공통으로 적용되는 요청 톤이다.
func NewService(editorialAI ai.EditorialAI, collector metrics.MetricsCollector, tone string) *Service {
	return &Service{
		editorialAI: editorialAI,
		guard:       inflight.NewGuard(),
		collector:   collector,
		tone:        tone,
	}
}

// ParseMode 는 요청 문자열을 제목 추천 모드로 해석한다.
// PRE/POST 이외의 값은 INVALID_TITLE_MODE 에러가 된다.
func ParseMode(raw string) (model.TitleMode, error) {
	switch model.TitleMode(raw) {
	case model.TitleModePre:
		return model.TitleModePre, nil
	case model.TitleModePost:
		return model.TitleModePost, nil
	default:
		return "", model.NewInvalidTitleModeError(raw)
	}
}

// Suggest 는 입력과 모드에 맞는 제목 후보를 추천한다.
// userKey 는 세션에서 유도한 사용자 식별 키다(게스트는 세션 ID).
//
//   - 공백뿐인 입력은 AI 호출 없이 EMPTY_CONTENT 로 거부한다.
//   - 같은 사용자 키의 추천이 진행 중이면 REQUEST_IN_FLIGHT 로 거부한다.
//   - AI 가 후보를 내지 못한 경우는 실패가 아니라 빈 후보 목록이다.
func (s *Service) Suggest(ctx context.Context, userKey, input string, mode model.TitleMode) (*model.TitleSuggestions, error) {
	if strings.TrimSpace(input) == "" {
		return nil, model.NewEmptyContentError()
	}
	if s.editorialAI == nil {
		return nil, model.NewNotConfiguredError("GEMINI_API_KEY")
	}

	if !s.guard.TryAcquire(userKey) {
		return nil, model.NewRequestInFlightError()
	}
	defer s.guard.Release(userKey)

	start := time.Now()
	result, err := s.editorialAI.SuggestTitles(ctx, input, mode, stylebook.Serialize(stylebook.Rules()), s.tone)
	s.collector.RecordTitleLatency(time.Since(start))

	if err != nil {
		s.collector.RecordTitleFailure(failureReason(err))
		return nil, err
	}

	s.collector.RecordTitleSuccess()
	return result, nil
}

// failureReason 은 메트릭 라벨용 실패 원인을 뽑는다.
func failureReason(err error) string {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return strings.ToLower(apiErr.Code)
	}
	return "unknown"
}
