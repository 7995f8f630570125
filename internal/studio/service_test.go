package studio

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bloter/newsroom/internal/model"
)

// mockAI 는 함수 필드로 동작을 주입하는 테스트용 AI.
type mockAI struct {
	correctFunc       func(ctx context.Context, content, stylebookText string) (*model.CorrectionResult, error)
	suggestTitlesFunc func(ctx context.Context, input string, mode model.TitleMode, stylebookText, tone string) (*model.TitleSuggestions, error)
}

func (m *mockAI) Correct(ctx context.Context, content, stylebookText string) (*model.CorrectionResult, error) {
	return m.correctFunc(ctx, content, stylebookText)
}

func (m *mockAI) SuggestTitles(ctx context.Context, input string, mode model.TitleMode, stylebookText, tone string) (*model.TitleSuggestions, error) {
	return m.suggestTitlesFunc(ctx, input, mode, stylebookText, tone)
}

// mockCollector 는 기록 호출을 세는 테스트용 컬렉터.
type mockCollector struct {
	mu                sync.Mutex
	correctionSuccess int
	correctionFail    []string
	titleSuccess      int
	titleFail         []string
}

func (m *mockCollector) RecordCorrectionSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.correctionSuccess++
}

func (m *mockCollector) RecordCorrectionFailure(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.correctionFail = append(m.correctionFail, reason)
}

func (m *mockCollector) RecordCorrectionLatency(time.Duration) {}

func (m *mockCollector) RecordTitleSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.titleSuccess++
}

func (m *mockCollector) RecordTitleFailure(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.titleFail = append(m.titleFail, reason)
}

func (m *mockCollector) RecordTitleLatency(time.Duration) {}
func (m *mockCollector) RecordLogin(string)               {}
func (m *mockCollector) RecordImportSuccess()             {}
func (m *mockCollector) RecordImportFailure(string)       {}

func TestCorrect_Success(t *testing.T) {
	var gotStylebook string
	aiMock := &mockAI{
		correctFunc: func(ctx context.Context, content, stylebookText string) (*model.CorrectionResult, error) {
			gotStylebook = stylebookText
			return &model.CorrectionResult{
				Corrected:    "수정된 본문",
				Explanations: []model.Explanation{},
				Citations:    []model.Citation{},
			}, nil
		},
	}
	collector := &mockCollector{}

	svc := NewService(aiMock, collector)
	result, err := svc.Correct(context.Background(), "reporter@bloter.net", "원문 본문")
	if err != nil {
		t.Fatalf("Correct() error = %v", err)
	}
	if result.Corrected != "수정된 본문" {
		t.Errorf("Corrected = %q", result.Corrected)
	}
	if gotStylebook == "" {
		t.Error("stylebook rules must be passed to the AI call")
	}
	if collector.correctionSuccess != 1 {
		t.Errorf("correctionSuccess = %d, want 1", collector.correctionSuccess)
	}
}

// 공백뿐인 본문은 AI 호출 없이 거부된다
func TestCorrect_EmptyContentSkipsAI(t *testing.T) {
	aiCalled := false
	aiMock := &mockAI{
		correctFunc: func(ctx context.Context, content, stylebookText string) (*model.CorrectionResult, error) {
			aiCalled = true
			return nil, nil
		},
	}

	svc := NewService(aiMock, &mockCollector{})
	_, err := svc.Correct(context.Background(), "reporter@bloter.net", "   \n\t  ")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeEmptyContent {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeEmptyContent)
	}
	if aiCalled {
		t.Error("AI must not be called for empty content")
	}
}

func TestCorrect_NotConfigured(t *testing.T) {
	svc := NewService(nil, &mockCollector{})

	_, err := svc.Correct(context.Background(), "reporter@bloter.net", "본문")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeNotConfigured {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeNotConfigured)
	}
}

// 같은 사용자의 교열이 진행 중이면 새 요청은 거부되고, 진행 중인 요청은 영향받지 않는다
func TestCorrect_RejectsSecondRequestInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	aiMock := &mockAI{
		correctFunc: func(ctx context.Context, content, stylebookText string) (*model.CorrectionResult, error) {
			select {
			case <-started:
			default:
				close(started)
				<-release
			}
			return &model.CorrectionResult{Corrected: "완료"}, nil
		},
	}

	svc := NewService(aiMock, &mockCollector{})

	type outcome struct {
		result *model.CorrectionResult
		err    error
	}
	firstDone := make(chan outcome, 1)
	go func() {
		result, err := svc.Correct(context.Background(), "reporter@bloter.net", "본문")
		firstDone <- outcome{result, err}
	}()

	<-started

	_, err := svc.Correct(context.Background(), "reporter@bloter.net", "다른 본문")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeRequestInFlight {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeRequestInFlight)
	}

	close(release)
	first := <-firstDone
	if first.err != nil {
		t.Errorf("in-flight request failed: %v", first.err)
	}
	if first.result.Corrected != "완료" {
		t.Errorf("in-flight result = %q", first.result.Corrected)
	}

	// 완료 후에는 다시 실행할 수 있다
	if _, err := svc.Correct(context.Background(), "reporter@bloter.net", "세 번째 본문"); err != nil {
		t.Errorf("Correct() after completion error = %v", err)
	}
}

// 다른 사용자의 요청은 서로 간섭하지 않는다
func TestCorrect_DifferentUsersRunConcurrently(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	aiMock := &mockAI{
		correctFunc: func(ctx context.Context, content, stylebookText string) (*model.CorrectionResult, error) {
			select {
			case <-started:
				// 두 번째 호출은 즉시 반환
			default:
				close(started)
				<-release
			}
			return &model.CorrectionResult{Corrected: "완료"}, nil
		},
	}

	svc := NewService(aiMock, &mockCollector{})

	done := make(chan error, 1)
	go func() {
		_, err := svc.Correct(context.Background(), "a@bloter.net", "본문")
		done <- err
	}()
	<-started

	if _, err := svc.Correct(context.Background(), "b@bloter.net", "본문"); err != nil {
		t.Errorf("other user's request must not be rejected: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Errorf("first request error = %v", err)
	}
}

// 게스트는 전원이 같은 이메일을 쓰므로 세션 ID 에서 유도한 키로 구분된다.
// 한 게스트의 교열이 진행 중이어도 다른 게스트는 거부되지 않는다
func TestCorrect_GuestSessionsDoNotBlockEachOther(t *testing.T) {
	first := &model.Session{ID: "guest-session-1", Email: "guest@numbers.ai", Guest: true}
	second := &model.Session{ID: "guest-session-2", Email: "guest@numbers.ai", Guest: true}

	started := make(chan struct{})
	release := make(chan struct{})
	aiMock := &mockAI{
		correctFunc: func(ctx context.Context, content, stylebookText string) (*model.CorrectionResult, error) {
			select {
			case <-started:
			default:
				close(started)
				<-release
			}
			return &model.CorrectionResult{Corrected: "완료"}, nil
		},
	}

	svc := NewService(aiMock, &mockCollector{})

	done := make(chan error, 1)
	go func() {
		_, err := svc.Correct(context.Background(), first.UserKey(), "본문")
		done <- err
	}()
	<-started

	if _, err := svc.Correct(context.Background(), second.UserKey(), "본문"); err != nil {
		t.Errorf("second guest must not be rejected: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Errorf("first guest's request error = %v", err)
	}
}

func TestCorrect_AIErrorPropagatesWithFailureMetric(t *testing.T) {
	aiMock := &mockAI{
		correctFunc: func(ctx context.Context, content, stylebookText string) (*model.CorrectionResult, error) {
			return nil, model.NewEmptyAIResponseError()
		},
	}
	collector := &mockCollector{}

	svc := NewService(aiMock, collector)
	_, err := svc.Correct(context.Background(), "reporter@bloter.net", "본문")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeEmptyAIResponse {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeEmptyAIResponse)
	}
	if len(collector.correctionFail) != 1 || collector.correctionFail[0] != "empty_ai_response" {
		t.Errorf("correctionFail = %v", collector.correctionFail)
	}
}
