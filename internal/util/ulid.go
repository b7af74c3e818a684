package util

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewQuizID returns a ULID. Quiz ids sort by creation time, which the
// store's listing order relies on when two quizzes share a timestamp.
func NewQuizID() string {
	return ulid.Make().String()
}

// NewResultID returns a random v4 UUID.
func NewResultID() string {
	return uuid.NewString()
}
