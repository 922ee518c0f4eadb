package dataset

const (
	rowsPosts   = "posts"
	rowsReplies = "replies"
)

// Log field names.
const (
	logFieldSnapshot = "snapshot"
	logFieldDataset  = "dataset"
	logFieldPosts    = "posts"
	logFieldReplies  = "replies"
	logFieldWarnings = "warnings"
)

const msgSnapshotActivated = "dataset snapshot activated"
