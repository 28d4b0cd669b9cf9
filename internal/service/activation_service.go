package service

import (
	"errors"
	"fmt"

	"github.com/lshigami/Wombats/internal/cache"
	"github.com/lshigami/Wombats/internal/model"
	"github.com/lshigami/Wombats/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActivationService guards the one piece of shared mutable state with a
// cross-request invariant: at most one active form per (department, type).
// Row locks inside one transaction are the primary mechanism; the partial
// unique index on active forms is the correctness backstop, and its
// violation is translated into ErrConflict rather than leaked.
type ActivationService interface {
	Activate(formID uint) error
	Deactivate(formID uint) error
}

type activationService struct {
	formRepo     repository.FormRepository
	questionRepo repository.QuestionRepository
	db           *gorm.DB
	bus          *cache.Bus
}

func NewActivationService(formRepo repository.FormRepository, questionRepo repository.QuestionRepository, db *gorm.DB, bus *cache.Bus) ActivationService {
	return &activationService{formRepo: formRepo, questionRepo: questionRepo, db: db, bus: bus}
}

func (s *activationService) Activate(formID uint) error {
	target, err := s.formRepo.FindByID(formID)
	if err != nil {
		return notFound(err)
	}
	count, err := s.questionRepo.CountByFormID(formID)
	if err != nil {
		return fmt.Errorf("error counting questions: %w", err)
	}
	if count == 0 {
		return ErrNoQuestions
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Exclusive row locks on the target and every sibling sharing its
		// (department, type) group, held for the duration of the transaction.
		var siblings []model.Form
		query := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("type = ?", target.Type)
		if target.DepartmentID != nil {
			query = query.Where("department_id = ?", *target.DepartmentID)
		} else {
			query = query.Where("department_id IS NULL")
		}
		if err := query.Find(&siblings).Error; err != nil {
			return err
		}

		for i := range siblings {
			if siblings[i].ID == formID || !siblings[i].IsActive {
				continue
			}
			if err := tx.Model(&model.Form{}).Where("id = ?", siblings[i].ID).Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.Form{}).Where("id = ?", formID).Update("is_active", true).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Warn().Uint("formID", formID).Msg("Activate: lost activation race, sibling already active")
			return ErrConflict
		}
		log.Error().Err(err).Uint("formID", formID).Msg("Activate: transaction failed")
		return fmt.Errorf("database error activating form: %w", err)
	}

	log.Info().Uint("formID", formID).Msg("Form activated")
	s.bus.Publish(cache.Event{})
	return nil
}

func (s *activationService) Deactivate(formID uint) error {
	if _, err := s.formRepo.FindByID(formID); err != nil {
		return notFound(err)
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var f model.Form
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&f, formID).Error; err != nil {
			return err
		}
		if !f.IsActive {
			return nil
		}
		return tx.Model(&model.Form{}).Where("id = ?", formID).Update("is_active", false).Error
	})
	if err != nil {
		log.Error().Err(err).Uint("formID", formID).Msg("Deactivate: transaction failed")
		return fmt.Errorf("database error deactivating form: %w", err)
	}

	log.Info().Uint("formID", formID).Msg("Form deactivated")
	s.bus.Publish(cache.Event{})
	return nil
}
