package errors

import (
	stderrors "errors"
	"strings"

	"go.uber.org/multierr"
)

// Kind classifies failures surfaced by the feed core.
// Validation kinds are detected before any network call.
type Kind string

const (
	KindMissingIdentity   Kind = "MISSING_IDENTITY"
	KindInvalidComment    Kind = "INVALID_COMMENT"
	KindInvalidPost       Kind = "INVALID_POST"
	KindMediaUploadFailed Kind = "MEDIA_UPLOAD_FAILED"
	KindRemoteWriteFailed Kind = "REMOTE_WRITE_FAILED"
	KindFetchFailed       Kind = "FETCH_FAILED"
)

// Sentinels for errors.Is
var (
	ErrMissingIdentity   = &FeedError{Kind: KindMissingIdentity}
	ErrInvalidComment    = &FeedError{Kind: KindInvalidComment}
	ErrInvalidPost       = &FeedError{Kind: KindInvalidPost}
	ErrMediaUploadFailed = &FeedError{Kind: KindMediaUploadFailed}
	ErrRemoteWriteFailed = &FeedError{Kind: KindRemoteWriteFailed}
	ErrFetchFailed       = &FeedError{Kind: KindFetchFailed}
)

// FeedError carries a kind and the human-readable messages to show the user
type FeedError struct {
	Kind     Kind
	Messages []string
	Cause    error
}

func (e *FeedError) Error() string {
	if len(e.Messages) == 0 {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + strings.Join(e.Messages, "; ")
}

// Is matches any FeedError of the same kind
func (e *FeedError) Is(target error) bool {
	t, ok := target.(*FeedError)
	return ok && t.Kind == e.Kind
}

func (e *FeedError) Unwrap() error {
	return e.Cause
}

// Validation builds a validation failure from errors combined with multierr.
// Returns nil when errs is nil.
func Validation(kind Kind, errs error) error {
	if errs == nil {
		return nil
	}
	all := multierr.Errors(errs)
	msgs := make([]string, 0, len(all))
	for _, err := range all {
		msgs = append(msgs, err.Error())
	}
	return &FeedError{Kind: kind, Messages: msgs, Cause: errs}
}

// Remote builds a network-stage failure
func Remote(kind Kind, message string, cause error) error {
	msgs := []string{message}
	if cause != nil {
		msgs = append(msgs, Messages(cause)...)
	}
	return &FeedError{Kind: kind, Messages: msgs, Cause: cause}
}

// Messages flattens any error into the list of messages to display
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var fe *FeedError
	if stderrors.As(err, &fe) && len(fe.Messages) > 0 {
		return fe.Messages
	}
	var dm interface{ DisplayMessages() []string }
	if stderrors.As(err, &dm) {
		return dm.DisplayMessages()
	}
	var ae *APIError
	if stderrors.As(err, &ae) {
		if len(ae.Messages) > 0 {
			return ae.Messages
		}
		return []string{ae.Message}
	}
	return []string{err.Error()}
}

// KindOf returns the kind of a FeedError, or "" for other errors
func KindOf(err error) Kind {
	var fe *FeedError
	if stderrors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
