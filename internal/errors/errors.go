package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for type checking
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")
)

// UnknownDeckError indicates a deck name that isn't in the collection.
type UnknownDeckError struct {
	Name string
}

func (e *UnknownDeckError) Error() string {
	return fmt.Sprintf("deck not found: %s", e.Name)
}

func (e *UnknownDeckError) Unwrap() error {
	return ErrNotFound
}

// DuplicateNameError indicates a deck name that is taken or unusable.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	if e.Name == "" {
		return "deck name cannot be empty"
	}
	return fmt.Sprintf("deck already exists: %s", e.Name)
}

func (e *DuplicateNameError) Unwrap() error {
	return ErrAlreadyExists
}

// EmptyFieldError indicates a required card field was blank.
type EmptyFieldError struct {
	Field string // "question" or "answer"
}

func (e *EmptyFieldError) Error() string {
	return fmt.Sprintf("%s cannot be empty", e.Field)
}

func (e *EmptyFieldError) Unwrap() error {
	return ErrInvalidInput
}

// IndexOutOfRangeError indicates a card position outside the deck.
type IndexOutOfRangeError struct {
	Deck  string
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	if e.Len == 0 {
		return fmt.Sprintf("card %d out of range: deck %q is empty", e.Index, e.Deck)
	}
	return fmt.Sprintf("card %d out of range: deck %q has cards 0-%d", e.Index, e.Deck, e.Len-1)
}

func (e *IndexOutOfRangeError) Unwrap() error {
	return ErrNotFound
}

// InvalidGoalError indicates a daily goal below one card.
type InvalidGoalError struct {
	Goal int
}

func (e *InvalidGoalError) Error() string {
	return fmt.Sprintf("invalid daily goal: %d (must be at least 1)", e.Goal)
}

func (e *InvalidGoalError) Unwrap() error {
	return ErrInvalidInput
}

// UnknownSessionError indicates a study session ID that isn't registered.
type UnknownSessionError struct {
	ID string
}

func (e *UnknownSessionError) Error() string {
	return fmt.Sprintf("session not found: %s", e.ID)
}

func (e *UnknownSessionError) Unwrap() error {
	return ErrNotFound
}

// ValidationError indicates invalid user input that isn't covered above.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Helper constructors for common cases

func UnknownDeck(name string) error {
	return &UnknownDeckError{Name: name}
}

func DuplicateName(name string) error {
	return &DuplicateNameError{Name: name}
}

func EmptyField(field string) error {
	return &EmptyFieldError{Field: field}
}

func IndexOutOfRange(deck string, index, length int) error {
	return &IndexOutOfRangeError{Deck: deck, Index: index, Len: length}
}

func InvalidGoal(goal int) error {
	return &InvalidGoalError{Goal: goal}
}

func UnknownSession(id string) error {
	return &UnknownSessionError{ID: id}
}

func InvalidField(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already-exists error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
