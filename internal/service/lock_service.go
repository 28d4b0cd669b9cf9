package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/Wombats/internal/directory"
	"github.com/lshigami/Wombats/internal/repository"
	"gorm.io/gorm"
)

// LockService answers the access-lock question: does this evaluator have any
// pending instance whose period already ended? It is a pure read-side guard,
// re-evaluated on every request, so completing the last overdue instance
// lifts the lock immediately.
type LockService interface {
	HasOverdue(evaluatorID uint, today time.Time) (bool, error)
}

type lockService struct {
	instanceRepo repository.InstanceRepository
	dir          directory.Directory
}

func NewLockService(instanceRepo repository.InstanceRepository, dir directory.Directory) LockService {
	return &lockService{instanceRepo: instanceRepo, dir: dir}
}

func (s *lockService) HasOverdue(evaluatorID uint, today time.Time) (bool, error) {
	isEvaluator, err := s.dir.IsEvaluator(evaluatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("error resolving role: %w", err)
	}
	if !isEvaluator {
		return false, nil
	}
	count, err := s.instanceRepo.CountOverdue(evaluatorID, today)
	if err != nil {
		return false, fmt.Errorf("error counting overdue instances: %w", err)
	}
	return count > 0, nil
}
