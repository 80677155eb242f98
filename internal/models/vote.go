package models

import "strings"

// Choice is a voter's position on a proposal
type Choice int

const (
	ChoiceNone Choice = iota
	ChoiceUp
	ChoiceDown
)

// ParseChoice accepts up/down and the like/dislike aliases
func ParseChoice(s string) (Choice, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "like", "yes":
		return ChoiceUp, true
	case "down", "dislike", "no":
		return ChoiceDown, true
	}
	return ChoiceNone, false
}

func (c Choice) String() string {
	switch c {
	case ChoiceUp:
		return "up"
	case ChoiceDown:
		return "down"
	default:
		return "none"
	}
}

// VoteOf returns the current choice of the named voter
func (p Proposal) VoteOf(voter string) Choice {
	for _, v := range p.Likes {
		if v.Voter == voter {
			return ChoiceUp
		}
	}
	for _, v := range p.Dislikes {
		if v.Voter == voter {
			return ChoiceDown
		}
	}
	return ChoiceNone
}

// WithoutVoter returns a copy of p with every entry for voter removed from both lists
func (p Proposal) WithoutVoter(voter string) Proposal {
	out := p.Clone()
	out.Likes = dropVoter(out.Likes, voter)
	out.Dislikes = dropVoter(out.Dislikes, voter)
	return out
}

// WithVote returns a copy of p where voter appears exactly once, in the list matching choice.
// ChoiceNone behaves like WithoutVoter.
func (p Proposal) WithVote(voter Identity, choice Choice) Proposal {
	out := p.WithoutVoter(voter.Name)
	entry := Vote{Voter: voter.Name, Species: voter.Species}
	switch choice {
	case ChoiceUp:
		out.Likes = append(out.Likes, entry)
	case ChoiceDown:
		out.Dislikes = append(out.Dislikes, entry)
	}
	return out
}

// HasVoter reports whether voter appears in either list
func (p Proposal) HasVoter(voter string) bool {
	return p.VoteOf(voter) != ChoiceNone
}

func dropVoter(votes []Vote, voter string) []Vote {
	out := make([]Vote, 0, len(votes))
	for _, v := range votes {
		if v.Voter != voter {
			out = append(out, v)
		}
	}
	return out
}
