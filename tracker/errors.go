package tracker

import "errors"

var (
	// ErrEmptyPhrase is returned when an empty or whitespace-only phrase
	// is added. An empty needle would match at every position.
	ErrEmptyPhrase = errors.New("phrase is empty")

	// ErrPhraseNotFound is returned when removing a phrase that was
	// never registered for the chat.
	ErrPhraseNotFound = errors.New("phrase is not registered")

	// ErrNotTracked is returned when untracking a chat that is not
	// currently tracked.
	ErrNotTracked = errors.New("chat is not tracked")

	// ErrPersistence wraps snapshot read and write failures. In-memory
	// state stays authoritative until the next successful flush.
	ErrPersistence = errors.New("snapshot persistence failed")
)
