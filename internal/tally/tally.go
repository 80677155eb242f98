// Package tally summarizes the votes on a proposal per species and decides
// it with species-weighted voting.
package tally

import (
	"fmt"
	"math"
	"strings"

	"github.com/Galinha2/super-nova-2177/internal/models"
)

// Level selects the acceptance threshold
type Level string

const (
	LevelStandard  Level = "standard"
	LevelImportant Level = "important"
)

// Thresholds is the share of weighted up-votes needed for acceptance
var Thresholds = map[Level]float64{
	LevelStandard:  0.60,
	LevelImportant: 0.90,
}

// SpeciesWeights is the configured weight of each species before renormalization
var SpeciesWeights = map[models.Species]float64{
	models.SpeciesHuman:   1.0 / 3,
	models.SpeciesCompany: 1.0 / 3,
	models.SpeciesAI:      1.0 / 3,
}

// ParseLevel defaults to LevelStandard
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case "", LevelStandard:
		return LevelStandard, nil
	case LevelImportant:
		return LevelImportant, nil
	}
	return "", fmt.Errorf("unknown decision level %q", s)
}

// SpeciesCount is the like/dislike split of one species
type SpeciesCount struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}

// Breakdown is the per-species vote summary shown next to a proposal
type Breakdown struct {
	BySpecies map[models.Species]SpeciesCount `json:"by_species"`
	// Approval is the mean like ratio of the three species, 0..100
	Approval int `json:"approval"`
}

// Summarize counts votes per species and computes the approval rate.
// Species with no votes count as 0% toward the mean.
func Summarize(p models.Proposal) Breakdown {
	by := make(map[models.Species]SpeciesCount, len(models.AllSpecies))
	for _, sp := range models.AllSpecies {
		by[sp] = SpeciesCount{}
	}
	for _, v := range p.Likes {
		c := by[v.Species]
		c.Likes++
		by[v.Species] = c
	}
	for _, v := range p.Dislikes {
		c := by[v.Species]
		c.Dislikes++
		by[v.Species] = c
	}

	sum := 0.0
	for _, sp := range models.AllSpecies {
		c := by[sp]
		if total := c.Likes + c.Dislikes; total > 0 {
			sum += float64(c.Likes) / float64(total) * 100
		}
	}
	avg := sum / float64(len(models.AllSpecies))
	avg = math.Min(math.Max(avg, 0), 100)

	return Breakdown{BySpecies: by, Approval: int(math.Round(avg))}
}

// Decision is the weighted outcome of a proposal
type Decision struct {
	ProposalID string  `json:"proposal_id"`
	Status     string  `json:"status"`
	Up         float64 `json:"up"`
	Down       float64 `json:"down"`
	Total      float64 `json:"total"`
	Threshold  float64 `json:"threshold"`
	Level      Level   `json:"level"`
}

// Accepted reports whether the proposal passed
func (d Decision) Accepted() bool {
	return d.Status == "accepted"
}

// Decide weights every voter so that each species present holds an equal
// share of the outcome, split evenly among that species' voters.
func Decide(p models.Proposal, level Level) Decision {
	thr, ok := Thresholds[level]
	if !ok {
		level = LevelStandard
		thr = Thresholds[LevelStandard]
	}

	up, down := weighted(p)
	d := Decision{
		ProposalID: p.ID,
		Status:     "rejected",
		Up:         up,
		Down:       down,
		Total:      up + down,
		Threshold:  thr,
		Level:      level,
	}
	if d.Total > 0 && up/d.Total >= thr {
		d.Status = "accepted"
	}
	return d
}

func weighted(p models.Proposal) (up, down float64) {
	counts := map[models.Species]int{}
	for _, v := range p.Likes {
		counts[v.Species]++
	}
	for _, v := range p.Dislikes {
		counts[v.Species]++
	}
	if len(counts) == 0 {
		return 0, 0
	}

	totalWeight := 0.0
	for sp := range counts {
		totalWeight += SpeciesWeights[sp]
	}
	if totalWeight <= 0 {
		return 0, 0
	}

	perVoter := make(map[models.Species]float64, len(counts))
	for sp, n := range counts {
		perVoter[sp] = SpeciesWeights[sp] / totalWeight / float64(n)
	}
	for _, v := range p.Likes {
		up += perVoter[v.Species]
	}
	for _, v := range p.Dislikes {
		down += perVoter[v.Species]
	}
	return up, down
}
