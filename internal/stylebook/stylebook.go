// Package stylebook 은 블로터/넘버스 편집국의 교열 규칙집을 제공한다.
// 규칙은 AI 프롬프트에 주입되어 교정/교열/윤문의 기준이 된다.
package stylebook

import (
	"fmt"
	"strings"

	"github.com/bloter/newsroom/internal/model"
)

// initialRules 는 기본 탑재 규칙집.
// 규칙 편집 기능이 들어오기 전까지는 이 정적 규칙집이 전체 규칙이다.
var initialRules = []model.StyleRule{
	{ID: "1", Category: model.CategoryProofreading, Rule: "회사이름(한국어/외국어), 기관명, 화폐단위, 년도 표기는 띄어쓰기 지적 제외"},
	{ID: "2", Category: model.CategoryEditing, Rule: "주어-서술어 불일치 및 비문 수정, 중복 표현 제거"},
	{ID: "3", Category: model.CategoryPolishing, Rule: "블로터/넘버스 특유의 신뢰감 있는 문체 유지"},
	{ID: "4", Category: model.CategoryEditing, Rule: "불필요한 외래어(일본식 표현 등)를 쉽고 자연스러운 우리말로 순화"},
}

// Rules 는 규칙집 전체의 사본을 반환한다.
// 호출자가 반환 슬라이스를 수정해도 원본은 변하지 않는다.
func Rules() []model.StyleRule {
	rules := make([]model.StyleRule, len(initialRules))
	copy(rules, initialRules)
	return rules
}

// Serialize 는 규칙집을 AI 프롬프트 주입용 문자열로 직렬화한다.
// 각 규칙은 "[카테고리] 규칙" 형식의 한 줄이 되고 개행으로 이어 붙인다.
// 빈 규칙집은 빈 문자열이 된다.
func Serialize(rules []model.StyleRule) string {
	lines := make([]string, 0, len(rules))
	for _, r := range rules {
		lines = append(lines, fmt.Sprintf("[%s] %s", r.Category, r.Rule))
	}
	return strings.Join(lines, "\n")
}
