package seed

import (
	"fmt"
	"time"

	"github.com/Galinha2/super-nova-2177/internal/models"
	"github.com/brianvoe/gofakeit/v7"
)

var sampleTitles = []string{
	"Improve UI design",
	"Add new feature",
	"Bug fix required",
	"Refactor component",
	"Optimize performance",
}

var sampleAuthors = []models.Identity{
	{Name: "Alice Johnson", Species: models.SpeciesHuman},
	{Name: "Bob Smith", Species: models.SpeciesCompany},
	{Name: "Charlie Lee", Species: models.SpeciesAI},
}

var sampleMedia = []struct {
	kind models.MediaKind
	url  string
}{
	{models.MediaImage, "https://picsum.photos/400/200"},
	{models.MediaVideo, "https://www.youtube.com/watch?v=jWQx2f-CErU"},
	{models.MediaVideo, "https://www.youtube.com/watch?v=ZeerrnuLi5E"},
	{models.MediaLink, "https://example.com"},
	{models.MediaFile, "https://example.com/sample.pdf"},
}

// Generator produces fake proposals. The same seed yields the same proposals.
type Generator struct {
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewGenerator creates a generator. A zero seed picks a random one.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		faker: gofakeit.New(seed),
		now:   time.Now,
	}
}

// WithClock fixes the reference time proposal ages are computed from
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Proposals generates n proposals
func (g *Generator) Proposals(n int) []models.Proposal {
	out := make([]models.Proposal, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.Proposal(i+1))
	}
	return out
}

// Proposal generates one proposal. n only appears in the text-only body.
func (g *Generator) Proposal(n int) models.Proposal {
	f := g.faker
	author := sampleAuthors[f.IntRange(0, len(sampleAuthors)-1)]
	now := g.now()

	p := models.Proposal{
		ID:        f.UUID(),
		Title:     sampleTitles[f.IntRange(0, len(sampleTitles)-1)],
		Author:    author,
		CreatedAt: f.DateRange(now.Add(-12*24*time.Hour), now),
		Likes:     []models.Vote{},
		Dislikes:  []models.Vote{},
		Comments:  []models.Comment{},
	}

	// one in six proposals is text only
	if pick := f.IntRange(0, len(sampleMedia)); pick < len(sampleMedia) {
		p.Media = p.Media.With(sampleMedia[pick].kind, sampleMedia[pick].url)
	} else {
		p.Body = fmt.Sprintf("This is a text-only post for proposal %d", n)
	}

	seen := map[string]bool{author.Name: true}
	for i := f.IntRange(0, 12); i > 0; i-- {
		voter := g.voter(seen)
		p.Likes = append(p.Likes, models.Vote{Voter: voter.Name, Species: voter.Species})
	}
	for i := f.IntRange(0, 4); i > 0; i-- {
		voter := g.voter(seen)
		p.Dislikes = append(p.Dislikes, models.Vote{Voter: voter.Name, Species: voter.Species})
	}

	for i := f.IntRange(0, 4); i > 0; i-- {
		commenter := sampleAuthors[f.IntRange(0, len(sampleAuthors)-1)]
		p.Comments = append(p.Comments, models.Comment{
			User:    commenter.Name,
			Species: commenter.Species,
			Comment: f.HipsterSentence(),
		})
	}

	p.UpdatedAt = p.CreatedAt
	return p
}

// voter returns an identity whose name is not in seen, and records it
func (g *Generator) voter(seen map[string]bool) models.Identity {
	for {
		name := g.faker.Name()
		if seen[name] {
			continue
		}
		seen[name] = true
		return models.Identity{
			Name:    name,
			Species: models.AllSpecies[g.faker.IntRange(0, len(models.AllSpecies)-1)],
		}
	}
}
