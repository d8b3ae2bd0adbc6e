package model

import "errors"

var (
	ErrLLMUnavailable    = errors.New("llm service unavailable")
	ErrInvalidLLMOutput  = errors.New("invalid llm output")
	ErrActionNotSupport  = errors.New("action type not supported")
	ErrInvalidParams     = errors.New("invalid action params")
	ErrInvalidTime       = errors.New("invalid time format")
	ErrInvalidDate       = errors.New("invalid date format")
	ErrNotFound          = errors.New("resource not found")
	ErrMissingCredential = errors.New("vendor credential missing")
	ErrNoRefreshToken    = errors.New("oauth token expired and no refresh token")
	ErrSessionNotFound   = errors.New("session not found")
)
