// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ミドルウェア、ハンドラー、ワーカーから利用する。
type MetricsCollector interface {
	RecordHTTPRequest(statusCode int, duration time.Duration)
	RecordCredentialCheck(result string)
	RecordOAuthLogin(success bool)
	RecordSessionsPurged(count int64)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpRequests     *prometheus.CounterVec
	httpDuration     prometheus.Histogram
	credentialChecks *prometheus.CounterVec
	oauthLogins      *prometheus.CounterVec
	sessionsPurged   prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopapi_http_requests_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		httpDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shopapi_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		credentialChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopapi_credential_checks_total",
			Help: "Bearerトークン検証の判定結果別の件数",
		}, []string{"result"}),
		oauthLogins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopapi_oauth_logins_total",
			Help: "OAuthログインの結果別の件数",
		}, []string{"result"}),
		sessionsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shopapi_sessions_purged_total",
			Help: "クリーンアップで削除された期限切れセッションの合計数",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.credentialChecks,
		c.oauthLogins,
		c.sessionsPurged,
	)

	return c
}

// RecordHTTPRequest はレスポンスのステータスコードと処理時間を記録する。
func (c *Collector) RecordHTTPRequest(statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.httpDuration.Observe(duration.Seconds())
}

// RecordCredentialCheck はトークン検証の判定結果を記録する。
// resultには "accepted" または token.Kind の文字列表現を渡す。
func (c *Collector) RecordCredentialCheck(result string) {
	c.credentialChecks.WithLabelValues(result).Inc()
}

// RecordOAuthLogin はOAuthログインの成否を記録する。
func (c *Collector) RecordOAuthLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.oauthLogins.WithLabelValues(result).Inc()
}

// RecordSessionsPurged は削除した期限切れセッション数を加算する。
func (c *Collector) RecordSessionsPurged(count int64) {
	if count <= 0 {
		return
	}
	c.sessionsPurged.Add(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// ワーカープロセスのように本体ルーターを持たない場合に使用する。
// healthがnilでなければ/healthにも登録する。
func SetupMetricsRoute(gatherer prometheus.Gatherer, health http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	if health != nil {
		mux.Handle("/health", health)
	}
	return mux
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
