package repository

import (
	"errors"
	"time"

	"github.com/lshigami/Wombats/internal/model"
	"gorm.io/gorm"
)

// MetricsScope narrows an aggregation query to a department, an evaluatee, or
// an evaluator. Nil fields are ignored.
type MetricsScope struct {
	DepartmentID *uint
	EvaluateeID  *uint
	EvaluatorID  *uint
}

// AnswerRow is the flat projection the in-memory aggregation strategy
// consumes: one numeric answer joined with its question metadata and the
// period bucket of its instance.
type AnswerRow struct {
	QuestionID   uint
	QuestionText string
	QuestionType model.QuestionType
	IntValue     *int
	PeriodStart  time.Time
}

// BucketAggregate is one storage-side GROUP BY result row.
type BucketAggregate struct {
	QuestionID   uint
	QuestionText string
	QuestionType model.QuestionType
	PeriodStart  time.Time
	Avg          float64
	Count        int64
}

// DistributionRow is one (question, value) count for categorical breakdowns.
type DistributionRow struct {
	QuestionID   uint
	QuestionText string
	IntValue     int
	Count        int64
}

type InstanceRepository interface {
	// GetOrCreate finds the instance for the unique (form, evaluator,
	// evaluatee, period) key, creating it together with scaffolded answers
	// when absent. The bool result reports whether a row was created.
	GetOrCreate(instance *model.EvaluationInstance, scaffold []model.Answer) (bool, error)
	// FindByKey looks an instance up by its unique (form, evaluator,
	// evaluatee, period) key; used by the generation dry-run.
	FindByKey(formID, evaluatorID, evaluateeID uint, periodStart, periodEnd time.Time) (*model.EvaluationInstance, error)
	FindByID(id uint) (*model.EvaluationInstance, error)
	FindByIDWithDetails(id uint) (*model.EvaluationInstance, error)
	FindPendingByEvaluator(evaluatorID uint) ([]model.EvaluationInstance, error)
	// FindPendingInWindow returns pending instances whose period has not yet
	// ended, for the reminder pass. Ordering is deterministic for digest
	// reproducibility.
	FindPendingInWindow(today time.Time) ([]model.EvaluationInstance, error)
	CountOverdue(evaluatorID uint, today time.Time) (int64, error)
	// SaveSubmission persists one validated submission in one transaction:
	// scaffolded answer rows are updated in place by (instance, question)
	// and the instance flips to completed with SubmittedAt set. Re-submits
	// land on the same rows, so completion is terminal.
	SaveSubmission(instanceID uint, answers []model.Answer, submittedAt time.Time) error
	UpdateLastReminded(ids []uint, at time.Time) error

	CountAnswersInScope(scope MetricsScope, from, to time.Time) (int64, error)
	FindAnswerRows(scope MetricsScope, from, to time.Time) ([]AnswerRow, error)
	AggregateAnswers(scope MetricsScope, from, to time.Time) ([]BucketAggregate, error)
	AggregateDistribution(scope MetricsScope, from, to time.Time, questionType model.QuestionType) ([]DistributionRow, error)
}

type instanceRepository struct {
	db *gorm.DB
}

func NewInstanceRepository(db *gorm.DB) InstanceRepository {
	return &instanceRepository{db: db}
}

func (r *instanceRepository) GetOrCreate(instance *model.EvaluationInstance, scaffold []model.Answer) (bool, error) {
	created := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing model.EvaluationInstance
		err := tx.Where(
			"form_id = ? AND evaluator_id = ? AND evaluatee_id = ? AND period_start = ? AND period_end = ?",
			instance.FormID, instance.EvaluatorID, instance.EvaluateeID,
			instance.PeriodStart, instance.PeriodEnd,
		).First(&existing).Error
		if err == nil {
			*instance = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		instance.Answers = scaffold
		if err := tx.Create(instance).Error; err != nil {
			// A concurrent run won the race; the unique key makes the retry
			// read authoritative.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				instance.Answers = nil
				return tx.Where(
					"form_id = ? AND evaluator_id = ? AND evaluatee_id = ? AND period_start = ? AND period_end = ?",
					instance.FormID, instance.EvaluatorID, instance.EvaluateeID,
					instance.PeriodStart, instance.PeriodEnd,
				).First(instance).Error
			}
			return err
		}
		created = true
		return nil
	})
	return created, err
}

func (r *instanceRepository) FindByKey(formID, evaluatorID, evaluateeID uint, periodStart, periodEnd time.Time) (*model.EvaluationInstance, error) {
	var instance model.EvaluationInstance
	err := r.db.Where(
		"form_id = ? AND evaluator_id = ? AND evaluatee_id = ? AND period_start = ? AND period_end = ?",
		formID, evaluatorID, evaluateeID, periodStart, periodEnd,
	).First(&instance).Error
	if err != nil {
		return nil, err
	}
	return &instance, nil
}

func (r *instanceRepository) FindByID(id uint) (*model.EvaluationInstance, error) {
	var instance model.EvaluationInstance
	if err := r.db.First(&instance, id).Error; err != nil {
		return nil, err
	}
	return &instance, nil
}

func (r *instanceRepository) FindByIDWithDetails(id uint) (*model.EvaluationInstance, error) {
	var instance model.EvaluationInstance
	err := r.db.
		Preload("Form").
		Preload("Form.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.\"order\" ASC")
		}).
		Preload("Form.Questions.Choices").
		Preload("Answers").
		First(&instance, id).Error
	if err != nil {
		return nil, err
	}
	return &instance, nil
}

func (r *instanceRepository) FindPendingByEvaluator(evaluatorID uint) ([]model.EvaluationInstance, error) {
	var instances []model.EvaluationInstance
	err := r.db.
		Preload("Form").
		Where("evaluator_id = ? AND status = ?", evaluatorID, model.InstancePending).
		Order("period_end ASC, id ASC").
		Find(&instances).Error
	return instances, err
}

func (r *instanceRepository) FindPendingInWindow(today time.Time) ([]model.EvaluationInstance, error) {
	var instances []model.EvaluationInstance
	err := r.db.
		Preload("Form").
		Where("status = ? AND period_end >= ?", model.InstancePending, today).
		Order("evaluator_id ASC, department_id ASC NULLS FIRST, form_id ASC, evaluatee_id ASC").
		Find(&instances).Error
	return instances, err
}

func (r *instanceRepository) CountOverdue(evaluatorID uint, today time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.EvaluationInstance{}).
		Where("evaluator_id = ? AND status = ? AND period_end < ?", evaluatorID, model.InstancePending, today).
		Count(&count).Error
	return count, err
}

func (r *instanceRepository) SaveSubmission(instanceID uint, answers []model.Answer, submittedAt time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range answers {
			a := answers[i]
			res := tx.Model(&model.Answer{}).
				Where("instance_id = ? AND question_id = ?", instanceID, a.QuestionID).
				Updates(map[string]any{
					"int_value":    a.IntValue,
					"text_value":   a.TextValue,
					"choice_value": a.ChoiceValue,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// No scaffolded row, the question was added after the
				// instance was stamped out.
				a.InstanceID = instanceID
				if err := tx.Create(&a).Error; err != nil {
					return err
				}
			}
		}
		return tx.Model(&model.EvaluationInstance{}).
			Where("id = ?", instanceID).
			Updates(map[string]any{
				"status":       model.InstanceCompleted,
				"submitted_at": submittedAt,
			}).Error
	})
}

func (r *instanceRepository) UpdateLastReminded(ids []uint, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&model.EvaluationInstance{}).
		Where("id IN ?", ids).
		Update("last_reminded_at", at).Error
}

// seriesTypes are the numeric types aggregated into time series. Emoji
// ratings are categorical and go through AggregateDistribution instead.
var seriesTypes = []model.QuestionType{model.QuestionStarRating, model.QuestionNumericRating, model.QuestionNumber}

func (r *instanceRepository) scopedAnswers(scope MetricsScope, from, to time.Time) *gorm.DB {
	query := r.db.Model(&model.Answer{}).
		Joins("JOIN evaluation_instances ei ON ei.id = answers.instance_id").
		Joins("JOIN questions q ON q.id = answers.question_id AND q.deleted_at IS NULL").
		Where("ei.status = ?", model.InstanceCompleted).
		Where("ei.period_start >= ? AND ei.period_start <= ?", from, to).
		Where("q.include_in_trends = ?", true)
	if scope.DepartmentID != nil {
		query = query.Where("ei.department_id = ?", *scope.DepartmentID)
	}
	if scope.EvaluateeID != nil {
		query = query.Where("ei.evaluatee_id = ?", *scope.EvaluateeID)
	}
	if scope.EvaluatorID != nil {
		query = query.Where("ei.evaluator_id = ?", *scope.EvaluatorID)
	}
	return query
}

func (r *instanceRepository) CountAnswersInScope(scope MetricsScope, from, to time.Time) (int64, error) {
	var count int64
	err := r.scopedAnswers(scope, from, to).
		Where("answers.int_value IS NOT NULL").
		Where("q.type IN ?", model.NumericTypes()).
		Count(&count).Error
	return count, err
}

func (r *instanceRepository) FindAnswerRows(scope MetricsScope, from, to time.Time) ([]AnswerRow, error) {
	var rows []AnswerRow
	err := r.scopedAnswers(scope, from, to).
		Select("answers.question_id AS question_id, q.text AS question_text, q.type AS question_type, answers.int_value AS int_value, ei.period_start AS period_start").
		Order("answers.question_id ASC, ei.period_start ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *instanceRepository) AggregateAnswers(scope MetricsScope, from, to time.Time) ([]BucketAggregate, error) {
	var rows []BucketAggregate
	err := r.scopedAnswers(scope, from, to).
		Where("answers.int_value IS NOT NULL").
		Where("q.type IN ?", seriesTypes).
		Select("answers.question_id AS question_id, q.text AS question_text, q.type AS question_type, ei.period_start AS period_start, AVG(answers.int_value) AS avg, COUNT(answers.int_value) AS count").
		Group("answers.question_id, q.text, q.type, ei.period_start").
		Order("answers.question_id ASC, ei.period_start ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *instanceRepository) AggregateDistribution(scope MetricsScope, from, to time.Time, questionType model.QuestionType) ([]DistributionRow, error) {
	var rows []DistributionRow
	err := r.scopedAnswers(scope, from, to).
		Where("answers.int_value IS NOT NULL").
		Where("q.type = ?", questionType).
		Select("answers.question_id AS question_id, q.text AS question_text, answers.int_value AS int_value, COUNT(*) AS count").
		Group("answers.question_id, q.text, answers.int_value").
		Order("answers.question_id ASC, answers.int_value ASC").
		Scan(&rows).Error
	return rows, err
}
