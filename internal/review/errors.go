package review

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySelection indicates that no question matches the current filters.
	ErrEmptySelection = errors.New("no matching question")

	// ErrInvalidInput is the parent of all rejected user input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBlankTag rejects empty or whitespace-only tags.
	ErrBlankTag = fmt.Errorf("%w: tag is blank", ErrInvalidInput)

	// ErrDuplicateTag rejects a tag the question already has.
	ErrDuplicateTag = fmt.Errorf("%w: tag already exists", ErrInvalidInput)

	// ErrUnknownTag rejects removal of a tag the question does not have.
	ErrUnknownTag = fmt.Errorf("%w: tag not on question", ErrInvalidInput)

	// ErrUnknownOption rejects a choice label the question does not offer.
	ErrUnknownOption = fmt.Errorf("%w: no such option", ErrInvalidInput)

	// ErrAlreadyAnswered is returned when the current view was already answered.
	ErrAlreadyAnswered = errors.New("question already answered")

	// ErrAnswerRevealed blocks answering while the answer is shown.
	ErrAnswerRevealed = errors.New("answer is revealed")

	// ErrNoChoice is returned when confirming without a staged choice.
	ErrNoChoice = errors.New("no option selected")

	// ErrNotAnswerable is returned for questions without options (essays).
	ErrNotAnswerable = errors.New("question has no options")

	// ErrConfirmationRequired guards destructive actions until acknowledged.
	ErrConfirmationRequired = errors.New("confirmation required")
)
