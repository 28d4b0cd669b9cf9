package service

import (
	"fmt"
	"time"

	"github.com/lshigami/Wombats/internal/cache"
	"github.com/lshigami/Wombats/internal/dto"
	"github.com/lshigami/Wombats/internal/form"
	"github.com/lshigami/Wombats/internal/model"
	"github.com/lshigami/Wombats/internal/repository"
	"github.com/rs/zerolog/log"
)

// SubmissionService is the evaluator-facing flow: list pending assignments,
// render an instance's form with its saved answers, and persist a validated
// submission.
type SubmissionService interface {
	ListPending(evaluatorID uint, today time.Time) ([]dto.InstanceSummaryDTO, error)
	GetInstance(instanceID uint) (*dto.InstanceDetailDTO, error)
	// Submit validates and saves all answers for one instance in one
	// transaction. Validation failures come back as form.ValidationErrors and
	// reject the save wholesale. Completion is sticky: re-submitting a
	// completed instance edits the answers and refreshes SubmittedAt, the
	// status never moves back to pending.
	Submit(instanceID uint, req dto.SubmitDTO, now time.Time) (*dto.SubmitResultDTO, error)
}

type submissionService struct {
	instanceRepo repository.InstanceRepository
	bus          *cache.Bus
}

func NewSubmissionService(instanceRepo repository.InstanceRepository, bus *cache.Bus) SubmissionService {
	return &submissionService{instanceRepo: instanceRepo, bus: bus}
}

func (s *submissionService) ListPending(evaluatorID uint, today time.Time) ([]dto.InstanceSummaryDTO, error) {
	instances, err := s.instanceRepo.FindPendingByEvaluator(evaluatorID)
	if err != nil {
		log.Error().Err(err).Uint("evaluatorID", evaluatorID).Msg("ListPending: repository error")
		return nil, fmt.Errorf("error fetching pending evaluations: %w", err)
	}
	dtos := make([]dto.InstanceSummaryDTO, 0, len(instances))
	for i := range instances {
		inst := &instances[i]
		dtos = append(dtos, dto.InstanceSummaryDTO{
			ID:          inst.ID,
			FormID:      inst.FormID,
			FormName:    inst.Form.Name,
			EvaluatorID: inst.EvaluatorID,
			EvaluateeID: inst.EvaluateeID,
			RolePair:    string(inst.RolePair),
			PeriodStart: inst.PeriodStart,
			PeriodEnd:   inst.PeriodEnd,
			Status:      string(inst.Status),
			SubmittedAt: inst.SubmittedAt,
			Overdue:     inst.Overdue(today),
		})
	}
	return dtos, nil
}

func (s *submissionService) GetInstance(instanceID uint) (*dto.InstanceDetailDTO, error) {
	inst, err := s.instanceRepo.FindByIDWithDetails(instanceID)
	if err != nil {
		return nil, notFound(err)
	}
	return &dto.InstanceDetailDTO{
		ID:          inst.ID,
		FormID:      inst.FormID,
		FormName:    inst.Form.Name,
		EvaluatorID: inst.EvaluatorID,
		EvaluateeID: inst.EvaluateeID,
		PeriodStart: inst.PeriodStart,
		PeriodEnd:   inst.PeriodEnd,
		Status:      string(inst.Status),
		SubmittedAt: inst.SubmittedAt,
		Fields:      form.BuildFields(&inst.Form, inst.Answers, false),
	}, nil
}

func (s *submissionService) Submit(instanceID uint, req dto.SubmitDTO, now time.Time) (*dto.SubmitResultDTO, error) {
	inst, err := s.instanceRepo.FindByIDWithDetails(instanceID)
	if err != nil {
		return nil, notFound(err)
	}

	inputs := make([]form.Input, 0, len(req.Answers))
	for _, a := range req.Answers {
		inputs = append(inputs, form.Input{QuestionID: a.QuestionID, Value: a.Value})
	}
	normalized, verrs := form.Validate(&inst.Form, inputs)
	if verrs != nil {
		return nil, verrs
	}

	answers := make([]model.Answer, 0, len(normalized))
	for _, n := range normalized {
		answers = append(answers, model.Answer{
			InstanceID:  inst.ID,
			QuestionID:  n.QuestionID,
			IntValue:    n.IntValue,
			TextValue:   n.TextValue,
			ChoiceValue: n.ChoiceValue,
		})
	}

	// Either every answer and the status flip land, or nothing does. The
	// repository updates rows in place keyed by (instance, question); the
	// unique index is the backstop against duplicates under a double-submit.
	if err := s.instanceRepo.SaveSubmission(inst.ID, answers, now); err != nil {
		log.Error().Err(err).Uint("instanceID", instanceID).Msg("Submit: transaction failed, no partial writes persisted")
		return nil, fmt.Errorf("error saving submission: %w", err)
	}

	log.Info().Uint("instanceID", instanceID).Uint("evaluatorID", inst.EvaluatorID).Int("answers", len(normalized)).Msg("Evaluation submitted")
	s.bus.Publish(cache.Event{EvaluatorID: inst.EvaluatorID, EvaluateeID: inst.EvaluateeID})

	submitted := now
	return &dto.SubmitResultDTO{
		InstanceID:  inst.ID,
		Status:      string(model.InstanceCompleted),
		SubmittedAt: &submitted,
	}, nil
}
