package report

const (
	defaultWordFreqLimit  = 30
	defaultHashtagLimit   = 10
	defaultTopPosts       = 10
	defaultTopicKeywords  = 10
	defaultPriorityAction = 5

	percentScale = 100
	scoreMidline = 50
)

// Metric names offered to the rule table.
const (
	metricSentimentPrefix = "sentiment."
	metricEmotionPrefix   = "emotion."
	metricTopicTop        = "topic.top"
	metricTopicBottom     = "topic.bottom"
	metricTypeRatio       = "engagement.type_ratio"
	metricAvgPerPost      = "engagement.avg_per_post"
	metricPeakHours       = "timing.peak_hours"
)

// Report section names used for insights and recommendations.
const (
	categorySentiment  = "Sentiment"
	categoryEmotion    = "Emotion"
	categoryEngagement = "Engagement"
	categoryTopics     = "Topics"
	categoryTiming     = "Timing"
)

// Performance ratings.
const (
	RatingExcellent = "Excellent"
	RatingGood      = "Good"
	RatingFair      = "Fair"
	RatingPoor      = "Poor"
)
