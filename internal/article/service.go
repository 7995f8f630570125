// Package article 은 외부 기사 URL 가져오기 기능을 제공한다.
// 가져온 본문은 스튜디오 교열이나 제목 추천의 입력으로 쓰인다.
package article

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/bloter/newsroom/internal/metrics"
	"github.com/bloter/newsroom/internal/model"
	"github.com/bloter/newsroom/internal/security"
)

// Service 는 기사 가져오기의 서비스 계층.
// SSRF 가드를 통과한 URL 만 가져오고 본문은 순수 텍스트로 정리해서 반환한다.
type Service struct {
	guard     security.SSRFGuardService
	client    *http.Client
	sanitizer security.TextSanitizerService
	collector metrics.MetricsCollector
	maxSize   int64
}

// NewService 는 Service 의 새 인스턴스를 생성한다.
// client 는 guard.NewSafeClient 로 만든 SSRF 방지 클라이언트를 넘긴다.
func NewService(
	guard security.SSRFGuardService,
	client *http.Client,
	sanitizer security.TextSanitizerService,
	collector metrics.MetricsCollector,
	maxSize int64,
) *Service {
	return &Service{
		guard:     guard,
		client:    client,
		sanitizer: sanitizer,
		collector: collector,
		maxSize:   maxSize,
	}
}

// Import 는 URL 의 기사를 가져와 제목과 본문 텍스트를 추출한다.
//
//   - 형식이 잘못된 URL 은 INVALID_URL 로 거부한다.
//   - 내부망/메타데이터 주소는 SSRF_BLOCKED 로 거부한다.
//   - 가져오기 실패(네트워크, 비정상 스테이터스)는 FETCH_FAILED 가 된다.
//   - 본문은 maxSize 바이트까지만 읽는다.
func (s *Service) Import(ctx context.Context, rawURL string) (*model.ImportedArticle, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		s.collector.RecordImportFailure("invalid_url")
		return nil, model.NewInvalidURLError("URL이 비어 있습니다")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		s.collector.RecordImportFailure("invalid_url")
		return nil, model.NewInvalidURLError(rawURL)
	}

	if err := s.guard.ValidateURL(rawURL); err != nil {
		slog.Warn("기사 URL이 보안 정책에 걸렸습니다",
			slog.String("url", rawURL),
			slog.String("error", err.Error()),
		)
		s.collector.RecordImportFailure("ssrf_blocked")
		return nil, model.NewSSRFBlockedError()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		s.collector.RecordImportFailure("invalid_url")
		return nil, model.NewInvalidURLError(rawURL)
	}
	req.Header.Set("User-Agent", "BloterNewsroom/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Warn("기사 가져오기에 실패했습니다",
			slog.String("url", rawURL),
			slog.String("error", err.Error()),
		)
		s.collector.RecordImportFailure("fetch_failed")
		return nil, model.NewFetchFailedError("연결할 수 없습니다")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.collector.RecordImportFailure("fetch_failed")
		return nil, model.NewFetchFailedError(fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	// 본문 크기 상한. 넘치는 부분은 잘라낸다.
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxSize))
	if err != nil {
		s.collector.RecordImportFailure("fetch_failed")
		return nil, model.NewFetchFailedError("본문을 읽을 수 없습니다")
	}

	title, content := extract(string(body))
	content = s.sanitizer.SanitizeText(content)
	if content == "" {
		s.collector.RecordImportFailure("empty_content")
		return nil, model.NewFetchFailedError("본문을 추출할 수 없습니다")
	}

	s.collector.RecordImportSuccess()
	slog.Info("기사를 가져왔습니다",
		slog.String("url", rawURL),
		slog.Int("content_length", len(content)),
	)

	return &model.ImportedArticle{
		URL:     rawURL,
		Title:   strings.TrimSpace(title),
		Content: content,
	}, nil
}

// extract 는 HTML 에서 문서 제목과 본문 텍스트를 뽑는다.
// script/style/noscript 의 내용물은 본문에서 제외한다.
// 파싱에 실패해도 빈 결과로 진행한다(호출측이 빈 본문을 거부한다).
func extract(rawHTML string) (title, content string) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", ""
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "title":
				if title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					title = n.FirstChild.Data
				}
				return
			case "p", "br", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6":
				sb.WriteString("\n")
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return title, sb.String()
}
