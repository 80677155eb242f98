package feed

import (
	"net/url"
	"slices"
	"strings"

	"github.com/Galinha2/super-nova-2177/internal/models"
)

// OrderField is the sort key of a Query
type OrderField string

const (
	OrderCreatedAt  OrderField = "created_at"
	OrderLikes      OrderField = "likes"
	OrderEngagement OrderField = "engagement"
)

// Query is the backend-neutral descriptor built from a FilterSpec
type Query struct {
	OrderBy    OrderField
	Descending bool
	// Species is empty when the feed is not scoped to one species
	Species models.Species
	// TitleContains is matched case-insensitively as a substring of the title
	TitleContains string
}

// DefaultQuery orders by newest first with no filter
func DefaultQuery() Query {
	return Query{OrderBy: OrderCreatedAt, Descending: true}
}

// Build maps a FilterSpec to a Query. It is pure and never fails.
func Build(spec FilterSpec) Query {
	spec = spec.Normalize()
	q := DefaultQuery()

	switch spec.Mode {
	case ModeOldest:
		q.Descending = false
	case ModeTopLiked:
		q.OrderBy = OrderLikes
	case ModeLessLiked:
		q.OrderBy = OrderLikes
		q.Descending = false
	case ModePopular:
		q.OrderBy = OrderEngagement
	case ModeBySpecies:
		q.Species = spec.Species
	}

	if spec.SearchText != "" {
		q.TitleContains = spec.SearchText
	}
	return q
}

// Values encodes q as REST query parameters
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("order", string(q.OrderBy))
	if q.Descending {
		v.Set("dir", "desc")
	} else {
		v.Set("dir", "asc")
	}
	if q.Species != "" {
		v.Set("species", string(q.Species))
	}
	if q.TitleContains != "" {
		v.Set("q", q.TitleContains)
	}
	return v
}

// ParseValues decodes REST query parameters, degrading unknown values to the default
func ParseValues(v url.Values) Query {
	q := DefaultQuery()
	switch OrderField(v.Get("order")) {
	case OrderLikes:
		q.OrderBy = OrderLikes
	case OrderEngagement:
		q.OrderBy = OrderEngagement
	}
	if strings.EqualFold(v.Get("dir"), "asc") {
		q.Descending = false
	}
	if sp, ok := models.ParseSpecies(v.Get("species")); ok {
		q.Species = sp
	}
	q.TitleContains = strings.TrimSpace(v.Get("q"))
	return q
}

// Match reports whether p passes the species and title predicates
func (q Query) Match(p models.Proposal) bool {
	if q.Species != "" && p.Author.Species != q.Species {
		return false
	}
	if q.TitleContains != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(q.TitleContains)) {
		return false
	}
	return true
}

// Apply filters and orders items in memory. Ties fall back to id order,
// which follows creation order for server-assigned ids.
func (q Query) Apply(items []models.Proposal) []models.Proposal {
	out := make([]models.Proposal, 0, len(items))
	for _, p := range items {
		if q.Match(p) {
			out = append(out, p)
		}
	}

	slices.SortStableFunc(out, func(a, b models.Proposal) int {
		c := q.compare(a, b)
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		if q.Descending {
			return -c
		}
		return c
	})
	return out
}

func (q Query) compare(a, b models.Proposal) int {
	switch q.OrderBy {
	case OrderLikes:
		return a.LikeCount() - b.LikeCount()
	case OrderEngagement:
		return a.Engagement() - b.Engagement()
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}
