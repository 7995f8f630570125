// Package ai 는 Gemini API 를 사용한 편집국 AI 기능을 제공한다.
// 교열(Correct)과 제목 추천(SuggestTitles)의 두 가지 호출을 지원한다.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bloter/newsroom/internal/model"
)

// EditorialAI 는 편집국 AI 호출의 인터페이스를 정의한다.
type EditorialAI interface {
	// Correct 는 기사 본문을 교정/교열/윤문한 결과를 반환한다.
	// AI 가 텍스트를 생성하지 못하면 EMPTY_AI_RESPONSE 에러를 반환한다.
	Correct(ctx context.Context, content, stylebookText string) (*model.CorrectionResult, error)

	// SuggestTitles 는 입력과 모드에 맞는 제목 후보를 반환한다.
	// AI 가 텍스트를 생성하지 못하면 에러 없이 빈 후보 목록을 반환한다.
	SuggestTitles(ctx context.Context, input string, mode model.TitleMode, stylebookText, tone string) (*model.TitleSuggestions, error)
}

// GeminiClient 는 Gemini generateContent API 의 클라이언트.
// 구조화 출력(responseSchema)과 Google 검색 그라운딩을 함께 사용한다.
type GeminiClient struct {
	httpClient      *http.Client
	logger          *slog.Logger
	apiKey          string
	endpoint        string // 테스트용으로 엔드포인트 교체 가능
	correctionModel string
	titleModel      string
}

// NewGeminiClient 는 GeminiClient 의 새 인스턴스를 생성한다.
func NewGeminiClient(apiKey, endpoint, correctionModel, titleModel string, logger *slog.Logger) *GeminiClient {
	return &GeminiClient{
		httpClient:      &http.Client{Timeout: 60 * time.Second},
		logger:          logger,
		apiKey:          apiKey,
		endpoint:        endpoint,
		correctionModel: correctionModel,
		titleModel:      titleModel,
	}
}

// schema 는 responseSchema 에 선언하는 OpenAPI 서브셋 스키마.
type schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*schema `json:"properties,omitempty"`
	Items       *schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// generateContentRequest 는 generateContent 호출의 요청 본문.
type generateContentRequest struct {
	Contents          []wireContent    `json:"contents"`
	SystemInstruction *wireContent     `json:"systemInstruction,omitempty"`
	Tools             []wireTool       `json:"tools,omitempty"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type wireContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []wirePart `json:"parts"`
}

type wirePart struct {
	Text string `json:"text"`
}

// wireTool 은 Google 검색 그라운딩 도구 선언.
type wireTool struct {
	GoogleSearch struct{} `json:"google_search"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType"`
	ResponseSchema   *schema `json:"responseSchema,omitempty"`
}

// generateContentResponse 는 generateContent 호출의 응답 본문.
type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content           wireContent        `json:"content"`
	GroundingMetadata *groundingMetadata `json:"groundingMetadata"`
}

type groundingMetadata struct {
	GroundingChunks []groundingChunk `json:"groundingChunks"`
}

type groundingChunk struct {
	Web *groundingWeb `json:"web"`
}

type groundingWeb struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// generate 는 generateContent 를 1회 호출하고 응답 텍스트와 검색 근거를 반환한다.
// HTTP 실패와 비정상 스테이터스는 AI_CALL_FAILED 로 묶는다.
func (c *GeminiClient) generate(ctx context.Context, modelName string, req *generateContentRequest) (string, []model.Citation, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", nil, fmt.Errorf("요청 본문 직렬화에 실패했습니다: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.endpoint, modelName)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("HTTP 요청 생성에 실패했습니다: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("Gemini API 호출에 실패했습니다",
			slog.String("model", modelName),
			slog.String("error", err.Error()),
		)
		return "", nil, model.NewAICallFailedError()
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("Gemini API 응답 본문 읽기에 실패했습니다",
			slog.String("model", modelName),
			slog.String("error", err.Error()),
		)
		return "", nil, model.NewAICallFailedError()
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Gemini API가 에러 스테이터스를 반환했습니다",
			slog.String("model", modelName),
			slog.Int("http_status", resp.StatusCode),
		)
		return "", nil, model.NewAICallFailedError()
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		c.logger.Error("Gemini API 응답 파싱에 실패했습니다",
			slog.String("model", modelName),
			slog.String("error", err.Error()),
		)
		return "", nil, model.NewAICallFailedError()
	}

	if len(parsed.Candidates) == 0 {
		return "", nil, nil
	}

	first := parsed.Candidates[0]

	var sb strings.Builder
	for _, p := range first.Content.Parts {
		sb.WriteString(p.Text)
	}

	var citations []model.Citation
	if first.GroundingMetadata != nil {
		for _, chunk := range first.GroundingMetadata.GroundingChunks {
			if chunk.Web == nil {
				continue
			}
			citations = append(citations, model.Citation{
				URI:   chunk.Web.URI,
				Title: chunk.Web.Title,
			})
		}
	}

	return sb.String(), citations, nil
}

// correctionPayload 는 교열 응답의 JSON 페이로드.
type correctionPayload struct {
	Corrected    string              `json:"corrected"`
	Explanations []model.Explanation `json:"explanations"`
}

// Correct 는 기사 본문을 교정/교열/윤문한 결과를 반환한다.
// 응답 텍스트가 비어 있으면 EMPTY_AI_RESPONSE, 스키마에 맞지 않으면
// AI_RESPONSE_INVALID 를 반환한다. 교열은 빈 응답을 실패로 취급한다.
func (c *GeminiClient) Correct(ctx context.Context, content, stylebookText string) (*model.CorrectionResult, error) {
	req := &generateContentRequest{
		Contents: []wireContent{
			{Role: "user", Parts: []wirePart{{Text: buildCorrectionContents(content, stylebookText)}}},
		},
		SystemInstruction: &wireContent{Parts: []wirePart{{Text: correctionSystemPrompt}}},
		Tools:             []wireTool{{}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   correctionResponseSchema(),
		},
	}

	text, citations, err := c.generate(ctx, c.correctionModel, req)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, model.NewEmptyAIResponseError()
	}

	var payload correctionPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		c.logger.Error("교열 응답이 선언 스키마에 맞지 않습니다",
			slog.String("error", err.Error()),
		)
		return nil, model.NewAIResponseInvalidError()
	}
	if payload.Corrected == "" {
		c.logger.Error("교열 응답에 corrected 필드가 없습니다")
		return nil, model.NewAIResponseInvalidError()
	}

	// explanations 가 생략되어도 응답은 빈 목록으로 정규화한다
	if payload.Explanations == nil {
		payload.Explanations = []model.Explanation{}
	}
	if citations == nil {
		citations = []model.Citation{}
	}

	return &model.CorrectionResult{
		Corrected:    payload.Corrected,
		Explanations: payload.Explanations,
		Citations:    citations,
	}, nil
}

// SuggestTitles 는 입력과 모드에 맞는 제목 후보를 반환한다.
// 제목 추천은 빈 응답을 실패가 아니라 빈 후보 목록으로 취급한다.
func (c *GeminiClient) SuggestTitles(ctx context.Context, input string, mode model.TitleMode, stylebookText, tone string) (*model.TitleSuggestions, error) {
	req := &generateContentRequest{
		Contents: []wireContent{
			{Role: "user", Parts: []wirePart{{Text: buildTitleContents(input, mode, stylebookText, tone)}}},
		},
		SystemInstruction: &wireContent{Parts: []wirePart{{Text: titleSystemPrompt}}},
		Tools:             []wireTool{{}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   titleResponseSchema(),
		},
	}

	text, citations, err := c.generate(ctx, c.titleModel, req)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return &model.TitleSuggestions{Titles: []string{}, Citations: []model.Citation{}}, nil
	}

	var titles []string
	if err := json.Unmarshal([]byte(text), &titles); err != nil {
		c.logger.Error("제목 추천 응답이 선언 스키마에 맞지 않습니다",
			slog.String("error", err.Error()),
		)
		return nil, model.NewAIResponseInvalidError()
	}
	if citations == nil {
		citations = []model.Citation{}
	}

	return &model.TitleSuggestions{
		Titles:    titles,
		Citations: citations,
	}, nil
}

// compile-time interface check
var _ EditorialAI = (*GeminiClient)(nil)
