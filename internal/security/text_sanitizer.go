// TextSanitizerService 는 외부에서 가져온 기사 본문을 순수 텍스트로 정리한다.
// AI 모델에 전달하는 본문과 API 응답에 포함되는 본문은 모두 이 정리를 거친다.
// bluemonday 의 StrictPolicy 로 모든 태그를 제거하고 텍스트만 남긴다.
package security

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService 는 텍스트 정리 기능의 인터페이스를 정의한다.
type TextSanitizerService interface {
	// SanitizeText 는 HTML 을 포함할 수 있는 입력에서 모든 태그를 제거하고
	// 순수 텍스트를 반환한다. script/style 등의 내용물까지 제거된다.
	// 엔티티는 디코드되고 연속 공백은 하나로 접힌다.
	// 빈 입력에는 빈 문자열을 반환한다. 동일 입력에 항상 동일 출력(멱등).
	SanitizeText(raw string) string
}

// textSanitizer 는 TextSanitizerService 의 구현.
// bluemonday 정책을 보관하며 스레드 세이프하게 동작한다.
type textSanitizer struct {
	policy *bluemonday.Policy
}

// collapseSpaces 는 연속된 공백 문자(개행 제외)를 하나로 접기 위한 패턴.
var collapseSpaces = regexp.MustCompile(`[ \t]+`)

// collapseNewlines 는 3개 이상의 연속 개행을 빈 줄 하나로 접기 위한 패턴.
var collapseNewlines = regexp.MustCompile(`\n{3,}`)

// NewTextSanitizer 는 TextSanitizerService 의 새 인스턴스를 생성한다.
// StrictPolicy 는 어떤 태그도 허용하지 않는다.
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// SanitizeText 는 입력에서 모든 HTML 태그를 제거하고 순수 텍스트를 반환한다.
func (s *textSanitizer) SanitizeText(raw string) string {
	if raw == "" {
		return ""
	}

	stripped := s.policy.Sanitize(raw)

	// StrictPolicy 출력은 엔티티로 이스케이프되어 있으므로 되돌린다
	decoded := html.UnescapeString(stripped)

	decoded = collapseSpaces.ReplaceAllString(decoded, " ")
	decoded = collapseNewlines.ReplaceAllString(decoded, "\n\n")

	return strings.TrimSpace(decoded)
}
