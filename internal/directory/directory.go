package directory

import (
	"github.com/lshigami/Wombats/internal/model"
	"gorm.io/gorm"
)

// Pair is one evaluator/evaluatee relationship implied by the org hierarchy.
type Pair struct {
	Evaluator model.Employee
	Evaluatee model.Employee
	RolePair  model.RolePair
}

// Directory is the read-only org-hierarchy contract the evaluation engine
// consumes: who reports to whom, department membership, and evaluator-class
// role checks.
type Directory interface {
	// EvaluationPairs lists every (evaluator, evaluatee) pair: each manager
	// with each of their direct reports, and each senior manager with each
	// manager they oversee.
	EvaluationPairs() ([]Pair, error)
	FindEmployee(id uint) (*model.Employee, error)
	IsEvaluator(id uint) (bool, error)
}

type gormDirectory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) Directory {
	return &gormDirectory{db: db}
}

func (d *gormDirectory) EvaluationPairs() ([]Pair, error) {
	var evaluators []model.Employee
	err := d.db.
		Where("role IN ?", []model.Role{model.RoleManager, model.RoleSeniorManager}).
		Order("id ASC").
		Find(&evaluators).Error
	if err != nil {
		return nil, err
	}

	var pairs []Pair
	for _, evaluator := range evaluators {
		wantRole := model.RoleEmployee
		rolePair := model.RolePairEmployeeReview
		if evaluator.Role == model.RoleSeniorManager {
			wantRole = model.RoleManager
			rolePair = model.RolePairManagerReview
		}

		var reports []model.Employee
		err := d.db.
			Where("manager_id = ? AND role = ?", evaluator.ID, wantRole).
			Order("id ASC").
			Find(&reports).Error
		if err != nil {
			return nil, err
		}
		for _, report := range reports {
			pairs = append(pairs, Pair{Evaluator: evaluator, Evaluatee: report, RolePair: rolePair})
		}
	}
	return pairs, nil
}

func (d *gormDirectory) FindEmployee(id uint) (*model.Employee, error) {
	var employee model.Employee
	if err := d.db.Preload("Department").First(&employee, id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (d *gormDirectory) IsEvaluator(id uint) (bool, error) {
	var employee model.Employee
	if err := d.db.Select("id", "role").First(&employee, id).Error; err != nil {
		return false, err
	}
	return employee.Role.Evaluator(), nil
}
