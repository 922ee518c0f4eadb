package pipeline

import "time"

const (
	DefaultTopicKMin      = 3
	DefaultTopicKMax      = 10
	DefaultSearchTimeout  = 2 * time.Minute
	DefaultPerLabelTopics = 3
	DefaultPerLabelDocs   = 3
)

// Stage names used for metrics and logs.
const (
	stageNormalize = "normalize"
	stageVectorize = "vectorize"
	stageClassify  = "classify"
	stageTopics    = "topics"
	stageLabelLDA  = "label_topics"
	stagePeaks     = "peaks"
	stageAggregate = "aggregate"
)

const (
	runStatusOK    = "ok"
	runStatusError = "error"

	reasonSearchTimeout = "topic search timed out"

	qualityPostsWithoutID = "post_without_id"
	qualityOrphanReplies  = "orphan_reply"
	qualityRowWarnings    = "row_warning"
)

// Log field constants
const (
	LogFieldRunID    = "run_id"
	LogFieldSnapshot = "snapshot_id"
	LogFieldStage    = "stage"
	LogFieldCount    = "count"
	LogFieldReason   = "reason"
	LogFieldDuration = "duration"
)

// Log message constants
const (
	msgAnalysisStarted   = "Starting analysis"
	msgAnalysisFinished  = "Analysis finished"
	msgRowErrors         = "some rows could not be classified"
	msgTopicsUnavailable = "topic modeling returned no topics"
	msgNoPeak            = "no clear activity peak"
	msgDataQuality       = "dataset has rows that could not be joined"
)
