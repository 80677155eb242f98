package validation

import (
	"errors"
	"strings"

	"github.com/Galinha2/super-nova-2177/internal/models"
	"go.uber.org/multierr"
)

// User-facing validation messages
const (
	MsgVoterNameMissing    = "Voter name is missing"
	MsgVoterSpeciesMissing = "Voter species is missing"

	MsgUserNameMissing   = "User name is missing"
	MsgProposalIDMissing = "Proposal ID is missing"
	MsgCommentEmpty      = "Comment is empty"

	MsgTitleRequired    = "Title is required"
	MsgContentRequired  = "Add a description or media before publishing"
	MsgUsernameRequired = "Enter username in profile settings before publishing."
	MsgSpeciesRequired  = "Enter your species in profile settings before publishing."
	MsgSpeciesUnknown   = "Species must be one of human, company, ai"
	MsgMediaEmpty       = "Media is missing a value"
	MsgMediaKindUnknown = "Media kind must be one of image, video, link, file"
	MsgMediaNotUpload   = "Only images and files can be uploaded"
)

// Voter checks that a voter identity is complete
func Voter(voter models.Identity) error {
	var errs error
	if blank(voter.Name) {
		errs = multierr.Append(errs, errors.New(MsgVoterNameMissing))
	}
	if blank(string(voter.Species)) {
		errs = multierr.Append(errs, errors.New(MsgVoterSpeciesMissing))
	}
	return errs
}

// Comment checks every precondition of a comment and reports all failures
func Comment(proposalID string, author models.Identity, text string) error {
	var errs error
	if blank(author.Name) {
		errs = multierr.Append(errs, errors.New(MsgUserNameMissing))
	}
	if blank(proposalID) {
		errs = multierr.Append(errs, errors.New(MsgProposalIDMissing))
	}
	if blank(text) {
		errs = multierr.Append(errs, errors.New(MsgCommentEmpty))
	}
	return errs
}

// PostInput is the part of a new post that validation looks at
type PostInput struct {
	Title    string
	Body     string
	Author   models.Identity
	HasMedia bool
}

// Post checks every precondition of publishing and reports all failures
func Post(in PostInput) error {
	var errs error
	if blank(in.Title) {
		errs = multierr.Append(errs, errors.New(MsgTitleRequired))
	}
	if blank(in.Body) && !in.HasMedia {
		errs = multierr.Append(errs, errors.New(MsgContentRequired))
	}
	if blank(in.Author.Name) {
		errs = multierr.Append(errs, errors.New(MsgUsernameRequired))
	}
	switch {
	case blank(string(in.Author.Species)):
		errs = multierr.Append(errs, errors.New(MsgSpeciesRequired))
	case !in.Author.Species.Valid():
		errs = multierr.Append(errs, errors.New(MsgSpeciesUnknown))
	}
	return errs
}

// Attachment checks a media selection. hasURL and hasContent say whether a
// URL or local content was supplied.
func Attachment(kind models.MediaKind, hasURL, hasContent bool) error {
	if _, ok := models.ParseMediaKind(string(kind)); !ok {
		return errors.New(MsgMediaKindUnknown)
	}
	if !hasURL && !hasContent {
		return errors.New(MsgMediaEmpty)
	}
	if hasContent && !kind.Uploadable() {
		return errors.New(MsgMediaNotUpload)
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
