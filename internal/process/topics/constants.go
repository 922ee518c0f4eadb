package topics

const (
	defaultFolds                = 3
	defaultMaxIter              = 20
	defaultTransformationPasses = 50
	defaultBatchSize            = 128
	defaultSeed                 = 42
	defaultTieTolerance         = 1e-6

	minDistinctTerms = 2
)

const (
	reasonEmptyCorpus       = "no documents with tokens"
	reasonInsufficientVocab = "insufficient vocabulary"
)

// Log field names.
const (
	logFieldDocuments = "documents"
	logFieldTerms     = "terms"
	logFieldK         = "k"
	logFieldKMin      = "k_min"
	logFieldScore     = "score"
	logFieldKey       = "key"
)

// Log messages.
const (
	msgTopicsDiscovered  = "topics discovered"
	msgCandidateScored   = "topic candidate scored"
	msgInsufficientVocab = "vocabulary too small for topic modeling"
	msgCacheHit          = "topic model cache hit"
	msgCachePutFailed    = "failed to cache topic model"
)
