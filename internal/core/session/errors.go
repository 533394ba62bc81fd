package session

import (
	"errors"

	"divinewithin/internal/core/breath"
)

var (
	// ErrInvalidDuration indicates a planned duration that is not a positive
	// whole number of seconds.
	ErrInvalidDuration = errors.New("invalid session duration")
	// ErrInvalidTransition indicates an operation the current state forbids.
	ErrInvalidTransition = errors.New("invalid session transition")
	// ErrUnknownKind indicates a plan with an unsupported session kind.
	ErrUnknownKind = errors.New("unknown session kind")
	// ErrUnknownMeditationType indicates a meditation focus outside the catalogue.
	ErrUnknownMeditationType = errors.New("unknown meditation type")
	// ErrUnknownTechnique indicates a technique without a breathing pattern.
	ErrUnknownTechnique = breath.ErrUnknownTechnique
)
