package config

import "time"

// ArtifactConfig holds the location of the pretrained model artifacts.
type ArtifactConfig struct {
	Dir            string `env:"ARTIFACT_DIR" envDefault:"./models"`
	SentimentModel string `env:"SENTIMENT_MODEL_FILE" envDefault:"sentiment_model.json"`
	EmotionModel   string `env:"EMOTION_MODEL_FILE" envDefault:"emotion_model.json"`
	Vectorizer     string `env:"VECTORIZER_FILE" envDefault:"tfidf_vocabulary.json"`
}

// DatasetConfig holds the location of the scraped dataset.
type DatasetConfig struct {
	Dir         string `env:"DATASET_DIR" envDefault:"./data"`
	PostsFile   string `env:"POSTS_FILE" envDefault:"tweet.csv"`
	RepliesFile string `env:"REPLIES_FILE" envDefault:"all_replies.csv"`
	Timezone    string `env:"TIMEZONE" envDefault:"UTC"`
}

// NormalizerConfig holds text normalisation settings.
type NormalizerConfig struct {
	MinTokenLen    int      `env:"MIN_TOKEN_LEN" envDefault:"3"`
	ExtraStopwords []string `env:"EXTRA_STOPWORDS" envSeparator:","`
}

// TopicConfig holds LDA topic search settings.
type TopicConfig struct {
	KMin          int           `env:"TOPIC_K_MIN" envDefault:"3"`
	KMax          int           `env:"TOPIC_K_MAX" envDefault:"10"`
	CVFolds       int           `env:"TOPIC_CV_FOLDS" envDefault:"3"`
	MaxIter       int           `env:"TOPIC_MAX_ITER" envDefault:"20"`
	BatchSize     int           `env:"TOPIC_BATCH_SIZE" envDefault:"128"`
	Parallelism   int           `env:"TOPIC_PARALLELISM" envDefault:"0"`
	Seed          int64         `env:"TOPIC_SEED" envDefault:"42"`
	SearchTimeout time.Duration `env:"TOPIC_SEARCH_TIMEOUT" envDefault:"2m"`
	CacheTTL      time.Duration `env:"TOPIC_CACHE_TTL" envDefault:"1h"`
	TopPosts      int           `env:"TOPIC_TOP_POSTS" envDefault:"10"`
}

// PeakConfig holds density clustering settings for reply activity.
type PeakConfig struct {
	Eps       float64 `env:"PEAK_EPS" envDefault:"0.5"`
	MinPoints int     `env:"PEAK_MIN_POINTS" envDefault:"2"`
}

// ReportConfig holds aggregation settings.
type ReportConfig struct {
	WordFreqLimit int    `env:"WORD_FREQ_LIMIT" envDefault:"30"`
	HashtagLimit  int    `env:"HASHTAG_LIMIT" envDefault:"10"`
	RulesPath     string `env:"RULES_PATH"`
}
