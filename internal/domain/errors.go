package domain

import "errors"

var (
	ErrConversationNotFound        = errors.New("conversation not found")
	ErrTranscriptionNotSupported   = errors.New("transcription not yet supported")
	ErrWebhookDispatchNotSupported = errors.New("webhook dispatch not yet supported")
	ErrMissingSummary              = errors.New("world model missing summary")
	ErrEmptyCompletion             = errors.New("empty completion from model")
)
