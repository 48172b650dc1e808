package errors

import "errors"

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrInternal     = errors.New("internal server error")
	ErrDuplicate    = errors.New("resource already exists")
	ErrValidation   = errors.New("validation failed")

	// Report domain failures
	ErrInvalidTaxonomy   = errors.New("value is not a member of its taxonomy")
	ErrInvalidTransition = errors.New("illegal status transition")
	ErrAlreadyVoted      = errors.New("user has already upvoted this report")
	ErrInvalidLocation   = errors.New("invalid latitude or longitude")

	// Collaborator failures
	ErrMediaStorage = errors.New("failed to store uploaded media")
	ErrAIService    = errors.New("ai service unavailable")
	ErrPersistence  = errors.New("failed to persist report")
)
