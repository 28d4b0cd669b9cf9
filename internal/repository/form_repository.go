package repository

import (
	"github.com/lshigami/Wombats/internal/model"
	"gorm.io/gorm"
)

type FormRepository interface {
	Create(form *model.Form) error
	FindByID(id uint) (*model.Form, error)
	FindByIDWithQuestions(id uint) (*model.Form, error)
	FindAll() ([]model.Form, error)
	// FindAllActive returns every active form with its questions preloaded,
	// ordered for the generation pass.
	FindAllActive() ([]model.Form, error)
	Update(form *model.Form) error
	Delete(id uint) error
	CountInstances(formID uint) (int64, error)
}

type formRepository struct {
	db *gorm.DB
}

func NewFormRepository(db *gorm.DB) FormRepository {
	return &formRepository{db: db}
}

func (r *formRepository) Create(form *model.Form) error {
	// GORM creates associated questions and their choices in one go when the
	// slices are populated.
	return r.db.Create(form).Error
}

func (r *formRepository) FindByID(id uint) (*model.Form, error) {
	var form model.Form
	if err := r.db.First(&form, id).Error; err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *formRepository) FindByIDWithQuestions(id uint) (*model.Form, error) {
	var form model.Form
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.\"order\" ASC")
		}).
		Preload("Questions.Choices").
		First(&form, id).Error
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *formRepository) FindAll() ([]model.Form, error) {
	var forms []model.Form
	if err := r.db.Order("created_at DESC").Find(&forms).Error; err != nil {
		return nil, err
	}
	return forms, nil
}

func (r *formRepository) FindAllActive() ([]model.Form, error) {
	var forms []model.Form
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.\"order\" ASC")
		}).
		Where("is_active = ?", true).
		Order("department_id ASC NULLS FIRST, type ASC").
		Find(&forms).Error
	if err != nil {
		return nil, err
	}
	return forms, nil
}

func (r *formRepository) Update(form *model.Form) error {
	return r.db.Save(form).Error
}

// Delete soft-deletes the form together with its questions and their
// choices. The SQL-level ON DELETE CASCADE only fires on hard deletes, so
// the children are flagged explicitly in the same transaction.
func (r *formRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&model.Question{}).Where("form_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Choice{}).Error; err != nil {
				return err
			}
			if err := tx.Where("form_id = ?", id).Delete(&model.Question{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Form{}, id).Error
	})
}

func (r *formRepository) CountInstances(formID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.EvaluationInstance{}).Where("form_id = ?", formID).Count(&count).Error
	return count, err
}
