package ai

import (
	"fmt"

	"github.com/bloter/newsroom/internal/model"
)

// correctionSystemPrompt 는 교열 호출의 시스템 프롬프트.
// 편집국장 역할, 편집의 3대 원칙, 브랜드 표기 지침을 포함한다.
const correctionSystemPrompt = `
당신은 '블로터(Bloter)'와 '넘버스(Numbers)'의 편집국장입니다.
당신의 임무는 제출된 기사를 세 가지 차원에서 완벽하게 다듬는 것입니다.

[편집의 3대 원칙]
1. 교정(proofreading): 오탈자, 띄어쓰기, 문장 부호 등 기본적인 오류 수정.
2. 교열(editing): 논리적 모순 제거, 주어-서술어 호응, 비문 수정, 불필요한 중복 표현 삭제.
3. 윤문(refining): 기사의 톤앤매너 개선, 전문 용어의 순화, 문장의 리듬감과 가독성 향상.

[중요 지침]
- 브랜드 명칭: 한국어 표기 시 반드시 "넘버스"(Numbers)를 사용하십시오. "넘버즈"는 절대 금지입니다.
- 출처(Source) 명시: 각 수정 사항에 대해 반드시 근거를 제시하십시오.
  (예: '블로터 스타일북 제1조', '국립국어원 표준어 규정', '경제 기사 작성 원칙', '문맥상 가독성 개선' 등)
- 데이터 기반: 제공된 [CUSTOM STYLEBOOK RULES]를 최우선으로 적용하십시오.

결과는 반드시 지정된 JSON 스키마 형식으로 출력하십시오.
`

// titleSystemPrompt 는 제목 추천 호출의 시스템 프롬프트.
const titleSystemPrompt = `입력된 내용을 바탕으로 전문적인 뉴스 제목 5개를 제안하십시오.
      규칙:
      1. 길이: 각 제목은 공백 포함 39자 이내여야 합니다.
      2. 명칭: 'Numbers'는 반드시 '넘버스'로 표기하십시오.
      3. 단계별 최적화:
         - '기사 작성 전'인 경우 궁금증을 유발하고 핵심 키워드를 강조하십시오.
         - '기사 작성 후'인 경우 본문의 핵심 결론을 명확히 전달하십시오.
      결과는 문자열 배열 형태의 JSON으로 출력하십시오.`

// buildCorrectionContents 는 교열 호출의 사용자 콘텐츠를 조립한다.
// 스타일북 규칙과 기사 본문을 라벨 블록으로 구분한다.
func buildCorrectionContents(content, stylebookText string) string {
	return fmt.Sprintf("[CUSTOM STYLEBOOK RULES]\n%s\n\n[ARTICLE CONTENT TO PROCESS]\n%s", stylebookText, content)
}

// buildTitleContents 는 제목 추천 호출의 사용자 콘텐츠를 조립한다.
// 모드에 따라 입력 단계 설명이 달라진다.
func buildTitleContents(input string, mode model.TitleMode, stylebookText, tone string) string {
	context := "기사 작성 후 완성된 본문"
	if mode == model.TitleModePre {
		context = "기사 작성 전 아이디어/키워드"
	}
	return fmt.Sprintf("스타일북 참조: %s\n\n입력 단계: %s\n내용: %s\n요청된 톤: %s", stylebookText, context, input, tone)
}

// correctionResponseSchema 는 교열 응답의 선언 스키마.
// corrected 와 explanations 가 필수이고 explanation 의 5개 필드도 전부 필수다.
func correctionResponseSchema() *schema {
	return &schema{
		Type: "OBJECT",
		Properties: map[string]*schema{
			"corrected": {Type: "STRING", Description: "수정이 완료된 전체 기사 본문"},
			"explanations": {
				Type: "ARRAY",
				Items: &schema{
					Type: "OBJECT",
					Properties: map[string]*schema{
						"type":   {Type: "STRING", Description: "반드시 '교정', '교열', '윤문' 중 하나를 선택하십시오."},
						"target": {Type: "STRING", Description: "수정 전의 원문 텍스트"},
						"change": {Type: "STRING", Description: "수정 후의 텍스트"},
						"reason": {Type: "STRING", Description: "편집 이유에 대한 상세 설명"},
						"source": {Type: "STRING", Description: "수정의 근거가 된 규칙이나 출처 (예: 스타일북 규칙 번호 등)"},
					},
					Required: []string{"type", "target", "change", "reason", "source"},
				},
			},
		},
		Required: []string{"corrected", "explanations"},
	}
}

// titleResponseSchema 는 제목 추천 응답의 선언 스키마(문자열 배열).
func titleResponseSchema() *schema {
	return &schema{
		Type:  "ARRAY",
		Items: &schema{Type: "STRING"},
	}
}
