// Package studio 는 기사 스튜디오(교정/교열/윤문)의 도메인 로직을 제공한다.
package studio

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

// Service 는 기사 교열의 서비스 계층.
// 사용자 단위로 동시에 하나의 교열만 허용한다.
type Service struct {
	editorialAI ai.EditorialAI
	guard       *inflight.Guard
	collector   metrics.MetricsCollector
}

// NewService 는 Service 의 새 인스턴스를 생성한다.
// editorialAI 가 nil 이면 AI 미설정 상태로 동작한다(호출 시 NOT_CONFIGURED).
func NewService(editorialAI ai.EditorialAI, collector metrics.MetricsCollector) *Service {
	return &Service{
		editorialAI: editorialAI,
		guard:       inflight.NewGuard(),
		collector:   collector,
	}
}

// Correct 는 기사 본문을 스타일북 규칙에 따라 교정/교열/윤문한다.
// userKey 는 세션에서 유도한 사용자 식별 키다(게스트는 세션 ID).
//
//   - 공백뿐인 본문은 AI 호출 없이 EMPTY_CONTENT 로 거부한다.
//   - 같은 사용자 키의 교열이 진행 중이면 REQUEST_IN_FLIGHT 로 거부한다.
//     거부된 요청은 진행 중인 요청에 어떤 영향도 주지 않는다.
func (s *Service) Correct(ctx context.Context, userKey, content string) (*model.CorrectionResult, error) {
	if strings.TrimSpace(content) == "" {
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
	result, err := s.editorialAI.Correct(ctx, content, stylebook.Serialize(stylebook.Rules()))
	s.collector.RecordCorrectionLatency(time.Since(start))

	if err != nil {
		s.collector.RecordCorrectionFailure(failureReason(err))
		return nil, err
	}

	s.collector.RecordCorrectionSuccess()
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
