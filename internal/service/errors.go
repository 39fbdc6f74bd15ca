package service

import (
	"errors"
	"fmt"
)

// ErrNoFeasibleRecipes is returned by the batch pipeline when the text step
// succeeded but every candidate referenced ingredients missing from the
// pantry. Callers present it as "add more ingredients", not as a failure.
var ErrNoFeasibleRecipes = errors.New("no feasible recipes for the given pantry")

// ErrBatchNotFound is returned by the snapshot store for unknown batch IDs.
var ErrBatchNotFound = errors.New("batch not found")

// ParseError means the AI service answered, but not with the structured data
// we asked for. The raw payload is logged by the service, never surfaced.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: malformed AI response: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// GenerationError is a failed dish-image generation. Recoverable per item:
// the recipe simply stays without an image.
type GenerationError struct {
	Recipe string
	Err    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("image generation for %q failed: %v", e.Recipe, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// TranslationError is a failed UI string translation. Callers recover by
// keeping the previously active language.
type TranslationError struct {
	Language string
	Err      error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translation to %q failed: %v", e.Language, e.Err)
}

func (e *TranslationError) Unwrap() error { return e.Err }
