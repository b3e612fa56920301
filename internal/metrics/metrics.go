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
// ハンドラーやワーカーから利用する。
type MetricsCollector interface {
	RecordWrappedGenerated()
	RecordShareCreated()
	RecordShareViewed()
	RecordShareMiss()
	RecordOGImageServed()
	RecordHTTPStatus(statusCode int)
	RecordAggregateLatency(duration time.Duration)
	RecordSharesCleaned(count int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	wrappedGenerated prometheus.Counter
	shareCreated     prometheus.Counter
	shareViewed      prometheus.Counter
	shareMiss        prometheus.Counter
	ogImageServed    prometheus.Counter
	httpStatus       *prometheus.CounterVec
	aggregateLatency prometheus.Histogram
	sharesCleaned    prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		wrappedGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tweetwrap_generated_total",
			Help: "生成されたラップドレポートの合計数",
		}),
		shareCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tweetwrap_share_created_total",
			Help: "作成された共有の合計数",
		}),
		shareViewed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tweetwrap_share_viewed_total",
			Help: "閲覧された共有ページの合計数",
		}),
		shareMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tweetwrap_share_miss_total",
			Help: "存在しない共有IDへのアクセス数",
		}),
		ogImageServed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tweetwrap_og_image_served_total",
			Help: "配信されたOGカード画像の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tweetwrap_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		aggregateLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tweetwrap_aggregate_latency_seconds",
			Help:    "ツイート集計のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		sharesCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tweetwrap_shares_cleaned_total",
			Help: "クリーンアップで削除された期限切れ共有の合計数",
		}),
	}

	reg.MustRegister(
		c.wrappedGenerated,
		c.shareCreated,
		c.shareViewed,
		c.shareMiss,
		c.ogImageServed,
		c.httpStatus,
		c.aggregateLatency,
		c.sharesCleaned,
	)

	return c
}

// RecordWrappedGenerated はレポート生成を記録する。
func (c *Collector) RecordWrappedGenerated() {
	c.wrappedGenerated.Inc()
}

// RecordShareCreated は共有の作成を記録する。
func (c *Collector) RecordShareCreated() {
	c.shareCreated.Inc()
}

// RecordShareViewed は共有ページの閲覧を記録する。
func (c *Collector) RecordShareViewed() {
	c.shareViewed.Inc()
}

// RecordShareMiss は存在しない共有IDへのアクセスを記録する。
func (c *Collector) RecordShareMiss() {
	c.shareMiss.Inc()
}

// RecordOGImageServed はOGカード画像の配信を記録する。
func (c *Collector) RecordOGImageServed() {
	c.ogImageServed.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordAggregateLatency は集計のレイテンシを記録する。
func (c *Collector) RecordAggregateLatency(duration time.Duration) {
	c.aggregateLatency.Observe(duration.Seconds())
}

// RecordSharesCleaned はクリーンアップで削除された共有数を記録する。
func (c *Collector) RecordSharesCleaned(count int) {
	c.sharesCleaned.Add(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
