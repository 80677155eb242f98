package service

import (
	"context"

	"github.com/Galinha2/super-nova-2177/internal/tally"
	"github.com/Galinha2/super-nova-2177/pkg/api"
	"github.com/Galinha2/super-nova-2177/pkg/output"
)

// Tally prints the species breakdown and weighted decision of a proposal.
// The REST backend computes it server side.
func (fs *FeedService) Tally(ctx context.Context, proposalID string, level tally.Level) error {
	if c, ok := fs.sel.Backend.(*api.Client); ok {
		resp, err := c.Tally(ctx, proposalID, level)
		if err != nil {
			return err
		}
		return output.PrintTally(resp.Breakdown, resp.Decision)
	}

	p, err := fs.sel.Get(ctx, proposalID)
	if err != nil {
		return err
	}
	return output.PrintTally(tally.Summarize(*p), tally.Decide(*p, level))
}
