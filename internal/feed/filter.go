// Package feed composes a displayable proposal feed from a remote backend and
// reconciles optimistic local votes, comments and new posts against it.
package feed

import (
	"strings"

	"github.com/Galinha2/super-nova-2177/internal/models"
)

// Mode is the feed ordering or scoping chosen by the user
type Mode string

const (
	ModeAll       Mode = "all"
	ModeLatest    Mode = "latest"
	ModeOldest    Mode = "oldest"
	ModeTopLiked  Mode = "top-liked"
	ModeLessLiked Mode = "less-liked"
	ModePopular   Mode = "popular"
	ModeBySpecies Mode = "species"
)

// Modes lists the selectable modes in menu order
var Modes = []Mode{ModeAll, ModeLatest, ModeOldest, ModeTopLiked, ModeLessLiked, ModePopular, ModeBySpecies}

// ParseMode never fails: unknown names map to ModeLatest
func ParseMode(s string) Mode {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", "-", " ", "-").Replace(key)
	switch key {
	case "all":
		return ModeAll
	case "latest", "newest", "recent":
		return ModeLatest
	case "oldest":
		return ModeOldest
	case "top-liked", "toplikes", "topliked", "most-liked":
		return ModeTopLiked
	case "less-liked", "lesslikes", "lessliked", "least-liked":
		return ModeLessLiked
	case "popular":
		return ModePopular
	case "species", "by-species":
		return ModeBySpecies
	}
	return ModeLatest
}

// FilterSpec describes how the feed is ordered and scoped.
// It is a comparable value; use Equal to compare specs the way the controller does.
type FilterSpec struct {
	Mode       Mode
	Species    models.Species
	SearchText string
}

// NewFilterSpec builds a normalized spec. mode may also be a species tag
// ("human", "company", "ai"), which selects ModeBySpecies.
func NewFilterSpec(mode, search string) FilterSpec {
	if sp, ok := models.ParseSpecies(mode); ok {
		return BySpecies(sp, search)
	}
	return FilterSpec{Mode: ParseMode(mode), SearchText: search}.Normalize()
}

// BySpecies scopes the feed to one author species
func BySpecies(species models.Species, search string) FilterSpec {
	return FilterSpec{Mode: ModeBySpecies, Species: species, SearchText: search}.Normalize()
}

// Latest is the default spec
func Latest() FilterSpec {
	return FilterSpec{Mode: ModeLatest}
}

// Normalize trims the search text and degrades anything unbuildable to Latest
func (f FilterSpec) Normalize() FilterSpec {
	out := FilterSpec{Mode: ParseMode(string(f.Mode)), SearchText: strings.TrimSpace(f.SearchText)}
	if out.Mode == ModeBySpecies {
		sp, ok := models.ParseSpecies(string(f.Species))
		if !ok {
			out.Mode = ModeLatest
		} else {
			out.Species = sp
		}
	}
	return out
}

// Equal compares specs by normalized value
func (f FilterSpec) Equal(other FilterSpec) bool {
	return f.Normalize() == other.Normalize()
}

// WithSearch returns a copy with the search text replaced
func (f FilterSpec) WithSearch(text string) FilterSpec {
	f.SearchText = text
	return f.Normalize()
}

func (f FilterSpec) String() string {
	s := string(f.Mode)
	if f.Mode == ModeBySpecies {
		s += ":" + string(f.Species)
	}
	if f.SearchText != "" {
		s += " q=" + f.SearchText
	}
	return s
}
