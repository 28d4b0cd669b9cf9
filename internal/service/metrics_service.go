package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/lshigami/Wombats/config"
	"github.com/lshigami/Wombats/internal/cache"
	"github.com/lshigami/Wombats/internal/dto"
	"github.com/lshigami/Wombats/internal/form"
	"github.com/lshigami/Wombats/internal/model"
	"github.com/lshigami/Wombats/internal/repository"
	"github.com/rs/zerolog/log"
)

const dateLayout = "2006-01-02"

// MetricsService converts raw answers into normalized time-bucketed series:
// one data point per period bucket with a 2-decimal average and a sample
// count, plus a categorical distribution for emoji questions. Two strategies
// exist purely for performance: an in-memory groupby under the configured row
// threshold and a SQL GROUP BY above it; both produce identical numbers.
type MetricsService interface {
	GetMetrics(viewerID uint, scope repository.MetricsScope, from, to time.Time) (*dto.MetricsResponseDTO, error)
}

type metricsService struct {
	instanceRepo repository.InstanceRepository
	cache        *cache.MetricsCache
	threshold    int64
}

func NewMetricsService(instanceRepo repository.InstanceRepository, metricsCache *cache.MetricsCache, cfg *config.Config) MetricsService {
	return &metricsService{
		instanceRepo: instanceRepo,
		cache:        metricsCache,
		threshold:    int64(cfg.Metrics.StorageAggregationThreshold),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func scopeKey(scope repository.MetricsScope, from, to time.Time) string {
	dept, evaluatee, evaluator := uint(0), uint(0), uint(0)
	if scope.DepartmentID != nil {
		dept = *scope.DepartmentID
	}
	if scope.EvaluateeID != nil {
		evaluatee = *scope.EvaluateeID
	}
	if scope.EvaluatorID != nil {
		evaluator = *scope.EvaluatorID
	}
	return fmt.Sprintf("d%d:e%d:v%d:%s:%s", dept, evaluatee, evaluator, from.Format(dateLayout), to.Format(dateLayout))
}

func (s *metricsService) GetMetrics(viewerID uint, scope repository.MetricsScope, from, to time.Time) (*dto.MetricsResponseDTO, error) {
	computationDate := time.Now().Format(dateLayout)
	key := scopeKey(scope, from, to)
	if cached, ok := s.cache.Get(viewerID, computationDate, key); ok {
		if resp, ok := cached.(*dto.MetricsResponseDTO); ok {
			return resp, nil
		}
	}

	count, err := s.instanceRepo.CountAnswersInScope(scope, from, to)
	if err != nil {
		return nil, fmt.Errorf("error sizing aggregation: %w", err)
	}

	var resp *dto.MetricsResponseDTO
	if count < s.threshold {
		resp, err = s.aggregateInMemory(scope, from, to)
	} else {
		resp, err = s.aggregateInStorage(scope, from, to)
	}
	if err != nil {
		return nil, err
	}

	log.Debug().Uint("viewerID", viewerID).Str("strategy", resp.Strategy).Int64("rows", count).Msg("Metrics computed")
	s.cache.Set(viewerID, computationDate, key, resp)
	return resp, nil
}

type bucketAccumulator struct {
	sum   int64
	count int64
}

func (s *metricsService) aggregateInMemory(scope repository.MetricsScope, from, to time.Time) (*dto.MetricsResponseDTO, error) {
	rows, err := s.instanceRepo.FindAnswerRows(scope, from, to)
	if err != nil {
		return nil, fmt.Errorf("error fetching answer rows: %w", err)
	}

	type questionMeta struct {
		text  string
		qType model.QuestionType
	}
	meta := make(map[uint]questionMeta)
	buckets := make(map[uint]map[time.Time]*bucketAccumulator)
	distributions := make(map[uint]map[int]int64)

	for _, row := range rows {
		if row.IntValue == nil || !row.QuestionType.Numeric() {
			continue
		}
		meta[row.QuestionID] = questionMeta{text: row.QuestionText, qType: row.QuestionType}

		if row.QuestionType == model.QuestionEmojiRating {
			if distributions[row.QuestionID] == nil {
				distributions[row.QuestionID] = make(map[int]int64)
			}
			distributions[row.QuestionID][*row.IntValue]++
			continue
		}

		if buckets[row.QuestionID] == nil {
			buckets[row.QuestionID] = make(map[time.Time]*bucketAccumulator)
		}
		acc := buckets[row.QuestionID][row.PeriodStart]
		if acc == nil {
			acc = &bucketAccumulator{}
			buckets[row.QuestionID][row.PeriodStart] = acc
		}
		acc.sum += int64(*row.IntValue)
		acc.count++
	}

	resp := &dto.MetricsResponseDTO{
		From:     from.Format(dateLayout),
		To:       to.Format(dateLayout),
		Strategy: "memory",
	}
	for questionID, perBucket := range buckets {
		series := dto.QuestionSeriesDTO{
			QuestionID: questionID,
			Text:       meta[questionID].text,
			Type:       string(meta[questionID].qType),
		}
		for bucket, acc := range perBucket {
			series.Points = append(series.Points, dto.SeriesPointDTO{
				Bucket:  bucket.Format(dateLayout),
				Average: round2(float64(acc.sum) / float64(acc.count)),
				Count:   acc.count,
			})
		}
		sort.Slice(series.Points, func(i, j int) bool { return series.Points[i].Bucket < series.Points[j].Bucket })
		resp.Series = append(resp.Series, series)
	}
	sort.Slice(resp.Series, func(i, j int) bool { return resp.Series[i].QuestionID < resp.Series[j].QuestionID })

	for questionID, counts := range distributions {
		resp.Distributions = append(resp.Distributions, distributionDTO(questionID, meta[questionID].text, counts))
	}
	sort.Slice(resp.Distributions, func(i, j int) bool { return resp.Distributions[i].QuestionID < resp.Distributions[j].QuestionID })
	return resp, nil
}

func (s *metricsService) aggregateInStorage(scope repository.MetricsScope, from, to time.Time) (*dto.MetricsResponseDTO, error) {
	aggregates, err := s.instanceRepo.AggregateAnswers(scope, from, to)
	if err != nil {
		return nil, fmt.Errorf("error aggregating answers: %w", err)
	}
	distRows, err := s.instanceRepo.AggregateDistribution(scope, from, to, model.QuestionEmojiRating)
	if err != nil {
		return nil, fmt.Errorf("error aggregating emoji distribution: %w", err)
	}

	resp := &dto.MetricsResponseDTO{
		From:     from.Format(dateLayout),
		To:       to.Format(dateLayout),
		Strategy: "storage",
	}
	var current *dto.QuestionSeriesDTO
	for _, agg := range aggregates {
		if current == nil || current.QuestionID != agg.QuestionID {
			resp.Series = append(resp.Series, dto.QuestionSeriesDTO{
				QuestionID: agg.QuestionID,
				Text:       agg.QuestionText,
				Type:       string(agg.QuestionType),
			})
			current = &resp.Series[len(resp.Series)-1]
		}
		current.Points = append(current.Points, dto.SeriesPointDTO{
			Bucket:  agg.PeriodStart.Format(dateLayout),
			Average: round2(agg.Avg),
			Count:   agg.Count,
		})
	}

	byQuestion := make(map[uint]map[int]int64)
	texts := make(map[uint]string)
	var order []uint
	for _, row := range distRows {
		if byQuestion[row.QuestionID] == nil {
			byQuestion[row.QuestionID] = make(map[int]int64)
			texts[row.QuestionID] = row.QuestionText
			order = append(order, row.QuestionID)
		}
		byQuestion[row.QuestionID][row.IntValue] = row.Count
	}
	for _, questionID := range order {
		resp.Distributions = append(resp.Distributions, distributionDTO(questionID, texts[questionID], byQuestion[questionID]))
	}
	return resp, nil
}

// distributionDTO fills all five ordinal buckets so the payload shape is
// stable regardless of which sentiments were observed.
func distributionDTO(questionID uint, text string, counts map[int]int64) dto.DistributionDTO {
	d := dto.DistributionDTO{QuestionID: questionID, Text: text}
	for ordinal := 1; ordinal <= 5; ordinal++ {
		d.Buckets = append(d.Buckets, dto.DistributionBucketDTO{
			Ordinal: ordinal,
			Symbol:  form.EmojiSymbol(ordinal),
			Count:   counts[ordinal],
		})
	}
	return d
}
