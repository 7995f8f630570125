package model

// RuleCategory 는 스타일북 규칙의 분류를 나타낸다.
type RuleCategory string

const (
	// CategoryProofreading 은 교정(오탈자, 띄어쓰기 등) 규칙이다.
	CategoryProofreading RuleCategory = "proofreading"
	// CategoryEditing 은 교열(비문, 논리 오류 등) 규칙이다.
	CategoryEditing RuleCategory = "editing"
	// CategoryPolishing 은 윤문(문체, 가독성) 규칙이다.
	CategoryPolishing RuleCategory = "polishing"
)

// StyleRule 은 AI 프롬프트에 컨텍스트로 전달되는 편집 규칙 1건을 나타낸다.
// 프로세스 전역에서 읽기 전용으로 취급한다.
type StyleRule struct {
	ID       string       `json:"id"`
	Category RuleCategory `json:"category"`
	Rule     string       `json:"rule"`
}

// Explanation 은 AI 가 제안한 수정 1건에 대한 설명을 나타낸다.
// Type 은 모델이 반환한 값('교정', '교열', '윤문')을 그대로 유지한다.
type Explanation struct {
	Type   string `json:"type"`
	Target string `json:"target"`
	Change string `json:"change"`
	Reason string `json:"reason"`
	Source string `json:"source"`
}

// Citation 은 AI 가 외부 검색 근거로 첨부한 출처를 나타낸다.
type Citation struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// CorrectionResult 는 교열 호출 1회의 결과를 나타낸다.
// 요청 단위로 생성되어 다음 요청 시 폐기되는 일회성 값이다.
type CorrectionResult struct {
	Corrected    string        `json:"corrected"`
	Explanations []Explanation `json:"explanations"`
	Citations    []Citation    `json:"citations"`
}

// TitleMode 는 제목 추천의 입력 단계를 나타낸다.
type TitleMode string

const (
	// TitleModePre 는 기사 작성 전(아이디어/키워드) 단계를 나타낸다.
	TitleModePre TitleMode = "PRE"
	// TitleModePost 는 기사 작성 후(완성 본문) 단계를 나타낸다.
	TitleModePost TitleMode = "POST"
)

// TitleSuggestions 는 제목 추천 호출 1회의 결과를 나타낸다.
// 호출 간 순서나 동일성은 보장하지 않는다.
type TitleSuggestions struct {
	Titles    []string   `json:"titles"`
	Citations []Citation `json:"citations"`
}

// ImportedArticle 은 URL 에서 가져온 기사 본문을 나타낸다.
type ImportedArticle struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}
