package feed

import (
	"testing"
	"time"

	"github.com/Galinha2/super-nova-2177/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestBuild_ModeMapping(t *testing.T) {
	tests := []struct {
		spec FilterSpec
		want Query
	}{
		{FilterSpec{Mode: ModeLatest}, Query{OrderBy: OrderCreatedAt, Descending: true}},
		{FilterSpec{Mode: ModeAll}, Query{OrderBy: OrderCreatedAt, Descending: true}},
		{FilterSpec{Mode: ModeOldest}, Query{OrderBy: OrderCreatedAt, Descending: false}},
		{FilterSpec{Mode: ModeTopLiked}, Query{OrderBy: OrderLikes, Descending: true}},
		{FilterSpec{Mode: ModeLessLiked}, Query{OrderBy: OrderLikes, Descending: false}},
		{FilterSpec{Mode: ModePopular}, Query{OrderBy: OrderEngagement, Descending: true}},
		{FilterSpec{Mode: ModeBySpecies, Species: models.SpeciesAI}, Query{OrderBy: OrderCreatedAt, Descending: true, Species: models.SpeciesAI}},
		{FilterSpec{Mode: "sideways"}, Query{OrderBy: OrderCreatedAt, Descending: true}},
		{FilterSpec{Mode: ModeBySpecies, Species: "robot"}, Query{OrderBy: OrderCreatedAt, Descending: true}},
	}
	for _, tt := range tests {
		t.Run(tt.spec.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Build(tt.spec))
		})
	}
}

func TestBuild_Deterministic(t *testing.T) {
	spec := FilterSpec{Mode: ModeTopLiked, SearchText: "solar"}
	assert.Equal(t, Build(spec), Build(spec))
}

func TestBuild_SearchIsTrimmed(t *testing.T) {
	a := Build(FilterSpec{Mode: ModeLatest, SearchText: "  Hello  "})
	b := Build(FilterSpec{Mode: ModeLatest, SearchText: "Hello"})
	assert.Equal(t, a, b)
	assert.Equal(t, "Hello", a.TitleContains)

	assert.Empty(t, Build(FilterSpec{Mode: ModeLatest, SearchText: "   "}).TitleContains)
}

func TestValuesRoundTrip(t *testing.T) {
	q := Query{OrderBy: OrderLikes, Species: models.SpeciesCompany, TitleContains: "grid"}
	assert.Equal(t, q, ParseValues(q.Values()))
}

func TestParseValues_Defaults(t *testing.T) {
	assert.Equal(t, DefaultQuery(), ParseValues(nil))
}

func TestApply_FiltersAndOrders(t *testing.T) {
	items := []models.Proposal{
		proposal("a", "Hello World", models.SpeciesHuman, 3*time.Hour, 1),
		proposal("b", "solar grid", models.SpeciesAI, 2*time.Hour, 5),
		proposal("c", "say HELLO", models.SpeciesAI, 1*time.Hour, 3),
	}

	got := Build(FilterSpec{Mode: ModeTopLiked}).Apply(items)
	assert.Equal(t, []string{"b", "c", "a"}, ids(got))

	got = Build(FilterSpec{Mode: ModeOldest}).Apply(items)
	assert.Equal(t, []string{"a", "b", "c"}, ids(got))

	got = Build(FilterSpec{Mode: ModeLatest, SearchText: " hello "}).Apply(items)
	assert.Equal(t, []string{"c", "a"}, ids(got))

	got = Build(BySpecies(models.SpeciesAI, "")).Apply(items)
	assert.Equal(t, []string{"c", "b"}, ids(got))
}

func TestApply_TiesFallBackToID(t *testing.T) {
	items := []models.Proposal{
		proposal("2", "x", models.SpeciesHuman, 0, 1),
		proposal("1", "y", models.SpeciesHuman, 0, 1),
		proposal("3", "z", models.SpeciesHuman, 0, 1),
	}
	got := Build(FilterSpec{Mode: ModeLessLiked}).Apply(items)
	assert.Equal(t, []string{"1", "2", "3"}, ids(got))
}

func ids(items []models.Proposal) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}
