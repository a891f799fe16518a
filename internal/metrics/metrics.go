package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Resolution metrics
var (
	ResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nrkdl_resolutions_total",
			Help: "Total number of references resolved to a program ID, by strategy.",
		},
		[]string{"strategy"},
	)

	ResolutionFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nrkdl_resolution_failures_total",
			Help: "Total number of references no strategy could resolve.",
		},
	)
)

// Download metrics
var (
	DownloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nrkdl_downloads_total",
			Help: "Total number of processed references, by outcome.",
		},
		[]string{"status"},
	)

	SubtitleConversionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nrkdl_subtitle_conversions_total",
			Help: "Total number of subtitle tracks located and converted.",
		},
		[]string{"status"},
	)

	SegmentsDownloadedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nrkdl_segments_downloaded_total",
			Help: "Total number of media segments fetched.",
		},
	)

	BytesDownloadedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nrkdl_bytes_downloaded_total",
			Help: "Total number of media bytes written.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		ResolutionsTotal,
		ResolutionFailuresTotal,
		DownloadsTotal,
		SubtitleConversionsTotal,
		SegmentsDownloadedTotal,
		BytesDownloadedTotal,
	)
}
