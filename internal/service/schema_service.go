package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Wombats/internal/dto"
	"github.com/lshigami/Wombats/internal/form"
	"github.com/lshigami/Wombats/internal/model"
	"github.com/lshigami/Wombats/internal/repository"
	"github.com/rs/zerolog/log"
)

// SchemaService owns form, question and choice definitions: the dependency
// root of the evaluation engine.
type SchemaService interface {
	CreateForm(req dto.FormCreateDTO) (*dto.FormResponseDTO, error)
	GetForm(formID uint) (*dto.FormResponseDTO, error)
	ListForms() ([]dto.FormSummaryDTO, error)
	UpdateForm(formID uint, req dto.FormUpdateDTO) (*dto.FormResponseDTO, error)
	DeleteForm(formID uint) error
	AddQuestion(formID uint, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error)
	UpdateQuestion(questionID uint, req dto.QuestionUpdateDTO) (*dto.QuestionResponseDTO, error)
	DeleteQuestion(questionID uint) error
	ReorderQuestion(questionID uint, position int) error
	// PreviewForm renders the form's fields read-only and non-required so an
	// administrator can inspect it before activation.
	PreviewForm(formID uint) ([]form.Field, error)
}

type schemaService struct {
	formRepo     repository.FormRepository
	questionRepo repository.QuestionRepository
}

func NewSchemaService(formRepo repository.FormRepository, questionRepo repository.QuestionRepository) SchemaService {
	return &schemaService{formRepo: formRepo, questionRepo: questionRepo}
}

func (s *schemaService) CreateForm(req dto.FormCreateDTO) (*dto.FormResponseDTO, error) {
	formType := model.FormType(req.Type)
	if !formType.Valid() {
		return nil, fmt.Errorf("invalid form type %q", req.Type)
	}

	var questions []model.Question
	if len(req.Questions) == 0 {
		questions = defaultQuestions(formType)
		log.Info().Str("type", req.Type).Int("count", len(questions)).Msg("CreateForm: seeding default question set")
	} else {
		for i, qDto := range req.Questions {
			q, err := questionFromDTO(qDto.Text, qDto.HelpText, qDto.Type, qDto.Required, qDto.MinValue, qDto.MaxValue, qDto.IncludeInTrends, qDto.Choices)
			if err != nil {
				return nil, err
			}
			q.Order = i
			questions = append(questions, *q)
		}
	}

	formModel := model.Form{
		DepartmentID: req.DepartmentID,
		Type:         formType,
		Name:         req.Name,
		Questions:    questions,
	}
	if err := s.formRepo.Create(&formModel); err != nil {
		log.Error().Err(err).Msg("CreateForm: failed to create form")
		return nil, fmt.Errorf("database error creating form: %w", err)
	}
	return s.GetForm(formModel.ID)
}

func (s *schemaService) GetForm(formID uint) (*dto.FormResponseDTO, error) {
	f, err := s.formRepo.FindByIDWithQuestions(formID)
	if err != nil {
		return nil, notFound(err)
	}
	return formToDTO(f), nil
}

func (s *schemaService) ListForms() ([]dto.FormSummaryDTO, error) {
	forms, err := s.formRepo.FindAll()
	if err != nil {
		log.Error().Err(err).Msg("ListForms: repository error")
		return nil, fmt.Errorf("error fetching forms: %w", err)
	}
	dtos := make([]dto.FormSummaryDTO, 0, len(forms))
	for _, f := range forms {
		dtos = append(dtos, dto.FormSummaryDTO{
			ID:           f.ID,
			DepartmentID: f.DepartmentID,
			Type:         string(f.Type),
			Name:         f.Name,
			IsActive:     f.IsActive,
			CreatedAt:    f.CreatedAt,
		})
	}
	return dtos, nil
}

func (s *schemaService) UpdateForm(formID uint, req dto.FormUpdateDTO) (*dto.FormResponseDTO, error) {
	f, err := s.formRepo.FindByID(formID)
	if err != nil {
		return nil, notFound(err)
	}
	f.Name = req.Name
	if err := s.formRepo.Update(f); err != nil {
		return nil, fmt.Errorf("database error updating form: %w", err)
	}
	return s.GetForm(formID)
}

func (s *schemaService) DeleteForm(formID uint) error {
	f, err := s.formRepo.FindByID(formID)
	if err != nil {
		return notFound(err)
	}
	if f.IsActive {
		return ErrFormActive
	}
	count, err := s.formRepo.CountInstances(formID)
	if err != nil {
		return fmt.Errorf("error counting instances: %w", err)
	}
	if count > 0 {
		return ErrHasInstances
	}
	return s.formRepo.Delete(formID)
}

func (s *schemaService) AddQuestion(formID uint, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error) {
	if _, err := s.formRepo.FindByID(formID); err != nil {
		return nil, notFound(err)
	}
	q, err := questionFromDTO(req.Text, req.HelpText, req.Type, req.Required, req.MinValue, req.MaxValue, req.IncludeInTrends, req.Choices)
	if err != nil {
		return nil, err
	}
	count, err := s.questionRepo.CountByFormID(formID)
	if err != nil {
		return nil, fmt.Errorf("error counting questions: %w", err)
	}
	q.FormID = formID
	q.Order = int(count)
	if err := s.questionRepo.Create(q); err != nil {
		log.Error().Err(err).Uint("formID", formID).Msg("AddQuestion: failed to create question")
		return nil, fmt.Errorf("database error creating question: %w", err)
	}
	return questionToDTO(q), nil
}

func (s *schemaService) UpdateQuestion(questionID uint, req dto.QuestionUpdateDTO) (*dto.QuestionResponseDTO, error) {
	q, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		return nil, notFound(err)
	}
	newType := model.QuestionType(req.Type)
	if !newType.Valid() {
		return nil, fmt.Errorf("invalid question type %q", req.Type)
	}

	q.Text = req.Text
	q.HelpText = req.HelpText
	q.Type = newType
	q.Required = req.Required
	q.MinValue = req.MinValue
	q.MaxValue = req.MaxValue
	if req.IncludeInTrends != nil {
		q.IncludeInTrends = *req.IncludeInTrends
	}
	// Bounds only mean something on numeric-like types.
	if !newType.Numeric() {
		q.MinValue = nil
		q.MaxValue = nil
	}
	q.Choices = nil
	if err := s.questionRepo.Update(q); err != nil {
		return nil, fmt.Errorf("database error updating question: %w", err)
	}

	choices := choicesFromDTO(req.Choices)
	if newType != model.QuestionSingleSelect {
		choices = nil
	}
	if err := s.questionRepo.ReplaceChoices(q.ID, choices); err != nil {
		return nil, fmt.Errorf("database error replacing choices: %w", err)
	}

	updated, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		return nil, notFound(err)
	}
	return questionToDTO(updated), nil
}

func (s *schemaService) DeleteQuestion(questionID uint) error {
	q, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		return notFound(err)
	}
	f, err := s.formRepo.FindByID(q.FormID)
	if err != nil {
		return notFound(err)
	}
	if f.IsActive {
		count, err := s.questionRepo.CountByFormID(q.FormID)
		if err != nil {
			return fmt.Errorf("error counting questions: %w", err)
		}
		if count <= 1 {
			return ErrLastQuestion
		}
	}
	if err := s.questionRepo.Delete(questionID); err != nil {
		return fmt.Errorf("database error deleting question: %w", err)
	}
	// Close the gap so the sibling sequence stays dense.
	siblings, err := s.questionRepo.FindByFormID(q.FormID)
	if err != nil {
		return fmt.Errorf("error reloading questions: %w", err)
	}
	return s.questionRepo.RewriteOrders(siblings)
}

// ReorderQuestion inserts the question at the target position among its
// siblings and renumbers the full sequence: snapshot ordered, remove the
// moved item, clamp the index, reinsert, rewrite every order in one batch.
func (s *schemaService) ReorderQuestion(questionID uint, position int) error {
	q, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		return notFound(err)
	}
	siblings, err := s.questionRepo.FindByFormID(q.FormID)
	if err != nil {
		return fmt.Errorf("error loading questions: %w", err)
	}

	remaining := make([]model.Question, 0, len(siblings))
	var moved *model.Question
	for i := range siblings {
		if siblings[i].ID == questionID {
			moved = &siblings[i]
			continue
		}
		remaining = append(remaining, siblings[i])
	}
	if moved == nil {
		return ErrNotFound
	}
	if position < 0 {
		position = 0
	}
	if position > len(remaining) {
		position = len(remaining)
	}

	reordered := make([]model.Question, 0, len(siblings))
	reordered = append(reordered, remaining[:position]...)
	reordered = append(reordered, *moved)
	reordered = append(reordered, remaining[position:]...)

	if err := s.questionRepo.RewriteOrders(reordered); err != nil {
		log.Error().Err(err).Uint("questionID", questionID).Int("position", position).Msg("ReorderQuestion: batch rewrite failed")
		return fmt.Errorf("database error reordering questions: %w", err)
	}
	return nil
}

func (s *schemaService) PreviewForm(formID uint) ([]form.Field, error) {
	f, err := s.formRepo.FindByIDWithQuestions(formID)
	if err != nil {
		return nil, notFound(err)
	}
	return form.BuildFields(f, nil, true), nil
}

func questionFromDTO(text, helpText, qType string, required bool, min, max *int, includeInTrends *bool, choices []dto.ChoiceDTO) (*model.Question, error) {
	t := model.QuestionType(qType)
	if !t.Valid() {
		return nil, fmt.Errorf("invalid question type %q", qType)
	}
	if t == model.QuestionSingleSelect && len(choices) == 0 {
		return nil, fmt.Errorf("single_select question %q requires at least one choice", text)
	}
	if !t.Numeric() {
		min, max = nil, nil
	}
	q := &model.Question{
		Text:            text,
		HelpText:        helpText,
		Type:            t,
		Required:        required,
		MinValue:        min,
		MaxValue:        max,
		IncludeInTrends: true,
		Choices:         choicesFromDTO(choices),
	}
	if includeInTrends != nil {
		q.IncludeInTrends = *includeInTrends
	}
	if t == model.QuestionSectionHeader {
		q.Required = false
		q.IncludeInTrends = false
	}
	return q, nil
}

func choicesFromDTO(choices []dto.ChoiceDTO) []model.Choice {
	out := make([]model.Choice, 0, len(choices))
	for _, c := range choices {
		out = append(out, model.Choice{Value: c.Value, Label: c.Label})
	}
	return out
}

func questionToDTO(q *model.Question) *dto.QuestionResponseDTO {
	var resp dto.QuestionResponseDTO
	copier.Copy(&resp, q)
	resp.Type = string(q.Type)
	for _, c := range q.Choices {
		resp.Choices = append(resp.Choices, dto.ChoiceDTO{Value: c.Value, Label: c.Label})
	}
	return &resp
}

func formToDTO(f *model.Form) *dto.FormResponseDTO {
	resp := dto.FormResponseDTO{
		ID:           f.ID,
		DepartmentID: f.DepartmentID,
		Type:         string(f.Type),
		Name:         f.Name,
		IsActive:     f.IsActive,
		CreatedAt:    f.CreatedAt,
	}
	for i := range f.Questions {
		resp.Questions = append(resp.Questions, *questionToDTO(&f.Questions[i]))
	}
	return &resp
}
