package service

import "errors"

var (
	// ErrNotFound covers unknown slugs, usernames and post ids.
	ErrNotFound = errors.New("not found")
	// ErrTextRequired is the validation failure for empty post or
	// comment text; nothing is written when it fires.
	ErrTextRequired = errors.New("text is required")
	// ErrGroupNotFound means a submitted group slug matches no group.
	// Handlers surface it as a field error, not a missing page.
	ErrGroupNotFound = errors.New("group not found")
	// ErrNotAuthor means the actor tried to mutate a post someone else
	// wrote. Callers redirect to the post detail instead of erroring.
	ErrNotAuthor = errors.New("not the post author")
)
