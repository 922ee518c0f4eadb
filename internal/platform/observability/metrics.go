package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysisRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_analysis_runs_total",
		Help: "The total number of analysis runs by outcome",
	}, []string{"status"})

	AnalysisDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "insight_analysis_duration_seconds",
		Help:    "Duration in seconds of a full analysis run",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
	})

	StageDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "insight_stage_duration_seconds",
		Help:    "Duration in seconds of a single pipeline stage",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	StageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_stage_failures_total",
		Help: "Pipeline stages that returned a not-ok section",
	}, []string{"stage"})

	ClassifiedItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_classified_items_total",
		Help: "Classified texts by classifier and label",
	}, []string{"classifier", "label"})

	ClassificationRowErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_classification_row_errors_total",
		Help: "Rows that could not be classified and kept the fallback label",
	}, []string{"classifier"})

	FallbackLabels = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_fallback_labels_total",
		Help: "Rows labelled with the fallback label because no known tokens survived",
	}, []string{"classifier"})

	TopicSearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "insight_topic_search_duration_seconds",
		Help:    "Duration in seconds of the cross-validated topic count search",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
	})

	TopicSelectedK = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "insight_topic_selected_k",
		Help: "Number of topics selected by the last search",
	})

	PeakClusters = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "insight_peak_clusters",
		Help: "Number of activity clusters found in the last run",
	})

	DatasetSwaps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insight_dataset_swaps_total",
		Help: "Number of times the active dataset snapshot was replaced",
	})

	DatasetRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "insight_dataset_rows",
		Help: "Rows in the active dataset snapshot",
	}, []string{"table"})

	DataQualityWarnings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_data_quality_warnings_total",
		Help: "Data quality issues found while joining posts and replies",
	}, []string{"kind"})
)
