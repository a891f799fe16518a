package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func getCounterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.(prometheus.Metric).Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func getCounterVecValue(cv *prometheus.CounterVec, labels ...string) float64 {
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0
	}
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func TestMetrics_CounterVecs(t *testing.T) {
	tests := []struct {
		name  string
		vec   *prometheus.CounterVec
		label string
	}{
		{"resolutions by strategy", ResolutionsTotal, "direct"},
		{"downloads succeeded", DownloadsTotal, "succeeded"},
		{"downloads failed", DownloadsTotal, "failed"},
		{"subtitle conversions", SubtitleConversionsTotal, "success"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := getCounterVecValue(tt.vec, tt.label)
			tt.vec.WithLabelValues(tt.label).Inc()
			after := getCounterVecValue(tt.vec, tt.label)
			if after != before+1 {
				t.Errorf("Expected counter to increment by 1, got diff %.0f", after-before)
			}
		})
	}
}

func TestMetrics_Counters(t *testing.T) {
	before := getCounterValue(BytesDownloadedTotal)
	BytesDownloadedTotal.Add(1024)
	if diff := getCounterValue(BytesDownloadedTotal) - before; diff != 1024 {
		t.Errorf("Expected bytes counter to grow by 1024, got %.0f", diff)
	}

	before = getCounterValue(ResolutionFailuresTotal)
	ResolutionFailuresTotal.Inc()
	if diff := getCounterValue(ResolutionFailuresTotal) - before; diff != 1 {
		t.Errorf("Expected failures counter to grow by 1, got %.0f", diff)
	}
}

func TestNewHTTPServer(t *testing.T) {
	srv := NewHTTPServer("localhost", 0)
	if srv.Addr != "localhost:9090" {
		t.Errorf("Expected default port 9090, got %q", srv.Addr)
	}

	SegmentsDownloadedTotal.Inc()

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200 from /metrics, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "nrkdl_segments_downloaded_total") {
		t.Error("Expected nrkdl metrics in exposition output")
	}
}
