package dto

// SeriesPointDTO is one time-bucketed data point: the bucket's period start
// date, the average (2 decimal places) and the sample count.
type SeriesPointDTO struct {
	Bucket  string  `json:"bucket"`
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// QuestionSeriesDTO is the per-question time series.
type QuestionSeriesDTO struct {
	QuestionID uint             `json:"question_id"`
	Text       string           `json:"text"`
	Type       string           `json:"type"`
	Points     []SeriesPointDTO `json:"points"`
}

// DistributionBucketDTO is one categorical count of an emoji question.
type DistributionBucketDTO struct {
	Ordinal int    `json:"ordinal"`
	Symbol  string `json:"symbol"`
	Count   int64  `json:"count"`
}

// DistributionDTO is the categorical breakdown served for emoji questions in
// place of an average.
type DistributionDTO struct {
	QuestionID uint                    `json:"question_id"`
	Text       string                  `json:"text"`
	Buckets    []DistributionBucketDTO `json:"buckets"`
}

// MetricsResponseDTO is the cache-backed aggregate payload. It contains only
// serializable scalar data, never live records.
type MetricsResponseDTO struct {
	From          string              `json:"from"`
	To            string              `json:"to"`
	Strategy      string              `json:"strategy"`
	Series        []QuestionSeriesDTO `json:"series"`
	Distributions []DistributionDTO   `json:"distributions,omitempty"`
}
