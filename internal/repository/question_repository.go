package repository

import (
	"github.com/lshigami/Wombats/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.Question) error
	FindByID(id uint) (*model.Question, error)
	FindByFormID(formID uint) ([]model.Question, error)
	Update(question *model.Question) error
	Delete(id uint) error
	CountByFormID(formID uint) (int64, error)
	// RewriteOrders persists a full sibling renumbering as one transaction so
	// the dense 0..N-1 order sequence is never observable half-written.
	RewriteOrders(questions []model.Question) error
	// ReplaceChoices swaps the full choice set of a question atomically.
	ReplaceChoices(questionID uint, choices []model.Choice) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.Preload("Choices").First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByFormID(formID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.
		Preload("Choices").
		Where("form_id = ?", formID).
		Order("\"order\" ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) Update(question *model.Question) error {
	return r.db.Save(question).Error
}

func (r *questionRepository) Delete(id uint) error {
	return r.db.Delete(&model.Question{}, id).Error
}

func (r *questionRepository) CountByFormID(formID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Question{}).Where("form_id = ?", formID).Count(&count).Error
	return count, err
}

func (r *questionRepository) RewriteOrders(questions []model.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Two passes: park every row on a non-colliding order first, then
		// write the final sequence. The partial unique index on
		// (form_id, "order") would otherwise reject intermediate states.
		for i := range questions {
			if err := tx.Model(&model.Question{}).
				Where("id = ?", questions[i].ID).
				Update("order", -(i + 1)).Error; err != nil {
				return err
			}
		}
		for i := range questions {
			if err := tx.Model(&model.Question{}).
				Where("id = ?", questions[i].ID).
				Update("order", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *questionRepository) ReplaceChoices(questionID uint, choices []model.Choice) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", questionID).Delete(&model.Choice{}).Error; err != nil {
			return err
		}
		for i := range choices {
			choices[i].ID = 0
			choices[i].QuestionID = questionID
			if err := tx.Create(&choices[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
