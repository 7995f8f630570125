package model

import "fmt"

// APIError 는 통일 에러 포맷을 나타낸다.
// UI에 표시할 원인 카테고리와 대처 방법을 포함한다.
type APIError struct {
	Code     string // 에러 코드
	Message  string // 에러 메시지
	Category string // 카테고리: auth, validation, editorial, system
	Action   string // 사용자 대처 방법
}

// Error 는 error 인터페이스를 구현한다.
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 정의된 에러 코드
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeEmptyContent       = "EMPTY_CONTENT"
	ErrCodeRequestInFlight    = "REQUEST_IN_FLIGHT"
	ErrCodeEmptyAIResponse    = "EMPTY_AI_RESPONSE"
	ErrCodeAIResponseInvalid  = "AI_RESPONSE_INVALID"
	ErrCodeAICallFailed       = "AI_CALL_FAILED"
	ErrCodeNotConfigured      = "NOT_CONFIGURED"
	ErrCodeProfileNotApproved = "PROFILE_NOT_APPROVED"
	ErrCodeProfileSyncFailed  = "PROFILE_SYNC_FAILED"
	ErrCodeInvalidTitleMode   = "INVALID_TITLE_MODE"
	ErrCodeInvalidURL         = "INVALID_URL"
	ErrCodeSSRFBlocked        = "SSRF_BLOCKED"
	ErrCodeFetchFailed        = "FETCH_FAILED"
)

// NewUnauthorizedError 는 미인증 에러를 생성한다.
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "인증이 필요합니다.",
		Category: "auth",
		Action:   "로그인 후 다시 시도해 주세요.",
	}
}

// NewEmptyContentError 는 빈 입력 에러를 생성한다.
// 빈 입력은 AI 호출 없이 요청 단계에서 거부된다.
func NewEmptyContentError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyContent,
		Message:  "입력된 내용이 없습니다.",
		Category: "validation",
		Action:   "기사 본문 또는 키워드를 입력한 뒤 실행해 주세요.",
	}
}

// NewRequestInFlightError 는 동일 사용자의 요청이 이미 진행 중일 때의 에러를 생성한다.
func NewRequestInFlightError() *APIError {
	return &APIError{
		Code:     ErrCodeRequestInFlight,
		Message:  "이전 요청이 아직 처리 중입니다.",
		Category: "editorial",
		Action:   "진행 중인 요청이 끝난 뒤 다시 실행해 주세요.",
	}
}

// NewEmptyAIResponseError 는 AI 가 응답 텍스트를 생성하지 못했을 때의 에러를 생성한다.
func NewEmptyAIResponseError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyAIResponse,
		Message:  "AI가 응답을 생성하지 못했습니다.",
		Category: "editorial",
		Action:   "같은 내용으로 다시 실행해 주세요.",
	}
}

// NewAIResponseInvalidError 는 AI 응답이 선언된 스키마에 맞지 않을 때의 에러를 생성한다.
func NewAIResponseInvalidError() *APIError {
	return &APIError{
		Code:     ErrCodeAIResponseInvalid,
		Message:  "AI 분석 중 오류가 발생했습니다.",
		Category: "editorial",
		Action:   "같은 내용으로 다시 실행해 주세요. 문제가 계속되면 입력을 줄여 보세요.",
	}
}

// NewAICallFailedError 는 AI 호출 자체가 실패했을 때의 에러를 생성한다.
func NewAICallFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeAICallFailed,
		Message:  "AI 분석 중 오류가 발생했습니다.",
		Category: "editorial",
		Action:   "잠시 후 다시 실행해 주세요. API_KEY가 설정되어 있는지 확인하세요.",
	}
}

// NewNotConfiguredError 는 외부 서비스 미설정 상태의 에러를 생성한다.
// 설정 누락은 기동 실패가 아니라 기능 단위의 축퇴 모드로 처리한다.
func NewNotConfiguredError(what string) *APIError {
	return &APIError{
		Code:     ErrCodeNotConfigured,
		Message:  fmt.Sprintf("%s 이(가) 설정되어 있지 않습니다.", what),
		Category: "system",
		Action:   "환경 변수 설정을 확인해 주세요.",
	}
}

// NewProfileNotApprovedError 는 승인되지 않은 프로필의 접근 거부 에러를 생성한다.
func NewProfileNotApprovedError(status UserStatus) *APIError {
	return &APIError{
		Code:     ErrCodeProfileNotApproved,
		Message:  fmt.Sprintf("계정이 아직 승인되지 않았습니다. (상태: %s)", status),
		Category: "auth",
		Action:   "관리자의 승인 후 이용할 수 있습니다.",
	}
}

// NewProfileSyncFailedError 는 프로필 동기화 실패 에러를 생성한다.
func NewProfileSyncFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeProfileSyncFailed,
		Message:  "프로필 동기화에 실패했습니다.",
		Category: "auth",
		Action:   "다시 로그인해 주세요. 문제가 계속되면 게스트 입장을 이용해 보세요.",
	}
}

// NewInvalidTitleModeError 는 지원하지 않는 제목 추천 모드 에러를 생성한다.
func NewInvalidTitleModeError(mode string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidTitleMode,
		Message:  fmt.Sprintf("지원하지 않는 모드입니다: %s", mode),
		Category: "validation",
		Action:   "모드는 PRE 또는 POST 중 하나를 지정해 주세요.",
	}
}

// NewInvalidURLError 는 잘못된 URL 에러를 생성한다.
func NewInvalidURLError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidURL,
		Message:  fmt.Sprintf("잘못된 URL입니다: %s", reason),
		Category: "validation",
		Action:   "http:// 또는 https:// 로 시작하는 올바른 URL을 입력해 주세요.",
	}
}

// NewSSRFBlockedError 는 SSRF 차단 에러를 생성한다.
func NewSSRFBlockedError() *APIError {
	return &APIError{
		Code:     ErrCodeSSRFBlocked,
		Message:  "보안 정책에 따라 해당 URL에 대한 접근이 차단되었습니다.",
		Category: "validation",
		Action:   "공개된 웹사이트의 URL을 입력해 주세요. 내부망 주소는 허용되지 않습니다.",
	}
}

// NewFetchFailedError 는 기사 가져오기 실패 에러를 생성한다.
func NewFetchFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeFetchFailed,
		Message:  fmt.Sprintf("기사 가져오기에 실패했습니다: %s", reason),
		Category: "editorial",
		Action:   "URL이 올바른지 확인하고 잠시 후 다시 시도해 주세요.",
	}
}
