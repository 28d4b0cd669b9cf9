package dto

import "time"

// ChoiceDTO carries one selectable option of a single_select question.
type ChoiceDTO struct {
	Value string `json:"value" binding:"required"`
	Label string `json:"label" binding:"required"`
}

// QuestionCreateDTO is used within FormCreateDTO and for adding questions to
// an existing form.
type QuestionCreateDTO struct {
	Text            string      `json:"text" binding:"required"`
	HelpText        string      `json:"help_text"`
	Type            string      `json:"type" binding:"required,oneof=short_text long_text star_rating emoji_rating numeric_rating number boolean single_select section_header"`
	Required        bool        `json:"required"`
	MinValue        *int        `json:"min_value"`
	MaxValue        *int        `json:"max_value"`
	IncludeInTrends *bool       `json:"include_in_trends"`
	Choices         []ChoiceDTO `json:"choices" binding:"omitempty,dive"`
}

// QuestionUpdateDTO mirrors QuestionCreateDTO for in-place edits.
type QuestionUpdateDTO struct {
	Text            string      `json:"text" binding:"required"`
	HelpText        string      `json:"help_text"`
	Type            string      `json:"type" binding:"required,oneof=short_text long_text star_rating emoji_rating numeric_rating number boolean single_select section_header"`
	Required        bool        `json:"required"`
	MinValue        *int        `json:"min_value"`
	MaxValue        *int        `json:"max_value"`
	IncludeInTrends *bool       `json:"include_in_trends"`
	Choices         []ChoiceDTO `json:"choices" binding:"omitempty,dive"`
}

// QuestionReorderDTO moves a question to a target position among its
// siblings; the whole sibling sequence is renumbered.
type QuestionReorderDTO struct {
	Position int `json:"position" binding:"min=0"`
}

// FormCreateDTO is for an administrator creating a questionnaire. When no
// questions are supplied the form is seeded with the default set for its
// type.
type FormCreateDTO struct {
	DepartmentID *uint               `json:"department_id"`
	Type         string              `json:"type" binding:"required,oneof=weekly monthly quarterly annual"`
	Name         string              `json:"name" binding:"required"`
	Questions    []QuestionCreateDTO `json:"questions" binding:"omitempty,dive"`
}

// FormUpdateDTO edits form metadata; activation goes through its own
// endpoint.
type FormUpdateDTO struct {
	Name string `json:"name" binding:"required"`
}

// QuestionResponseDTO is the question shape returned to clients.
type QuestionResponseDTO struct {
	ID              uint        `json:"id"`
	FormID          uint        `json:"form_id"`
	Text            string      `json:"text"`
	HelpText        string      `json:"help_text,omitempty"`
	Type            string      `json:"type"`
	Required        bool        `json:"required"`
	MinValue        *int        `json:"min_value,omitempty"`
	MaxValue        *int        `json:"max_value,omitempty"`
	Order           int         `json:"order"`
	IncludeInTrends bool        `json:"include_in_trends"`
	Choices         []ChoiceDTO `json:"choices,omitempty"`
}

// FormResponseDTO is the full form detail including ordered questions.
type FormResponseDTO struct {
	ID           uint                  `json:"id"`
	DepartmentID *uint                 `json:"department_id,omitempty"`
	Type         string                `json:"type"`
	Name         string                `json:"name"`
	IsActive     bool                  `json:"is_active"`
	Questions    []QuestionResponseDTO `json:"questions,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}

// FormSummaryDTO is the listing shape.
type FormSummaryDTO struct {
	ID           uint      `json:"id"`
	DepartmentID *uint     `json:"department_id,omitempty"`
	Type         string    `json:"type"`
	Name         string    `json:"name"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
