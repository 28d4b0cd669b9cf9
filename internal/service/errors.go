package service

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound covers any lookup of a missing form, question or instance.
	ErrNotFound = errors.New("not found")
	// ErrConflict is the user-facing translation of an activation race: the
	// storage-level uniqueness constraint fired because a sibling form is
	// already active.
	ErrConflict = errors.New("another form is already active for this department and type")
	// ErrNoQuestions refuses activation of a form with zero questions.
	ErrNoQuestions = errors.New("form has no questions")
	// ErrFormActive refuses deleting an active form.
	ErrFormActive = errors.New("form is active")
	// ErrHasInstances refuses deleting a form with dependent instances.
	ErrHasInstances = errors.New("form has dependent evaluation instances")
	// ErrLastQuestion refuses removing the final question of an active form.
	ErrLastQuestion = errors.New("an active form must keep at least one question")
)

// notFound maps gorm's record-not-found onto the service-level sentinel so
// controllers never inspect storage errors.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
