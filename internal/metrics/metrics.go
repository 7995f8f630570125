// Package metrics 는 Prometheus 메트릭 수집과 공개를 제공한다.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector 는 메트릭 수집의 인터페이스.
// 서비스 계층에서 사용한다.
type MetricsCollector interface {
	RecordCorrectionSuccess()
	RecordCorrectionFailure(reason string)
	RecordCorrectionLatency(duration time.Duration)
	RecordTitleSuccess()
	RecordTitleFailure(reason string)
	RecordTitleLatency(duration time.Duration)
	RecordLogin(method string)
	RecordImportSuccess()
	RecordImportFailure(reason string)
}

// Collector 는 Prometheus 메트릭을 수집하는 구현.
type Collector struct {
	correctionSuccess prometheus.Counter
	correctionFail    *prometheus.CounterVec
	correctionLatency prometheus.Histogram
	titleSuccess      prometheus.Counter
	titleFail         *prometheus.CounterVec
	titleLatency      prometheus.Histogram
	logins            *prometheus.CounterVec
	importSuccess     prometheus.Counter
	importFail        *prometheus.CounterVec
}

// NewCollector 는 새 Collector 를 생성하고 지정 레지스트리에 메트릭을 등록한다.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		correctionSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "newsroom_correction_success_total",
			Help: "교열 성공 합계",
		}),
		correctionFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsroom_correction_fail_total",
			Help: "교열 실패 합계(원인별)",
		}, []string{"reason"}),
		correctionLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "newsroom_correction_latency_seconds",
			Help:    "교열 호출 레이턴시(초)",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 8),
		}),
		titleSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "newsroom_title_success_total",
			Help: "제목 추천 성공 합계",
		}),
		titleFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsroom_title_fail_total",
			Help: "제목 추천 실패 합계(원인별)",
		}, []string{"reason"}),
		titleLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "newsroom_title_latency_seconds",
			Help:    "제목 추천 호출 레이턴시(초)",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 8),
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsroom_login_total",
			Help: "로그인 합계(방식별: google, guest)",
		}, []string{"method"}),
		importSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "newsroom_article_import_success_total",
			Help: "기사 가져오기 성공 합계",
		}),
		importFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsroom_article_import_fail_total",
			Help: "기사 가져오기 실패 합계(원인별)",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		c.correctionSuccess,
		c.correctionFail,
		c.correctionLatency,
		c.titleSuccess,
		c.titleFail,
		c.titleLatency,
		c.logins,
		c.importSuccess,
		c.importFail,
	)

	return c
}

// RecordCorrectionSuccess 는 교열 성공을 기록한다.
func (c *Collector) RecordCorrectionSuccess() {
	c.correctionSuccess.Inc()
}

// RecordCorrectionFailure 는 교열 실패를 원인과 함께 기록한다.
func (c *Collector) RecordCorrectionFailure(reason string) {
	c.correctionFail.WithLabelValues(reason).Inc()
}

// RecordCorrectionLatency 는 교열 호출의 레이턴시를 기록한다.
func (c *Collector) RecordCorrectionLatency(duration time.Duration) {
	c.correctionLatency.Observe(duration.Seconds())
}

// RecordTitleSuccess 는 제목 추천 성공을 기록한다.
func (c *Collector) RecordTitleSuccess() {
	c.titleSuccess.Inc()
}

// RecordTitleFailure 는 제목 추천 실패를 원인과 함께 기록한다.
func (c *Collector) RecordTitleFailure(reason string) {
	c.titleFail.WithLabelValues(reason).Inc()
}

// RecordTitleLatency 는 제목 추천 호출의 레이턴시를 기록한다.
func (c *Collector) RecordTitleLatency(duration time.Duration) {
	c.titleLatency.Observe(duration.Seconds())
}

// RecordLogin 은 로그인을 방식과 함께 기록한다.
func (c *Collector) RecordLogin(method string) {
	c.logins.WithLabelValues(method).Inc()
}

// RecordImportSuccess 는 기사 가져오기 성공을 기록한다.
func (c *Collector) RecordImportSuccess() {
	c.importSuccess.Inc()
}

// RecordImportFailure 는 기사 가져오기 실패를 원인과 함께 기록한다.
func (c *Collector) RecordImportFailure(reason string) {
	c.importFail.WithLabelValues(reason).Inc()
}

// Handler 는 Prometheus 스크레이프용 HTTP 핸들러를 반환한다.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute 는 /metrics 엔드포인트를 제공하는 HTTP 핸들러를 반환한다.
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
