package service

import (
	"fmt"
	"strings"

	"github.com/Galinha2/super-nova-2177/internal/models"
	"github.com/Galinha2/super-nova-2177/pkg/notify"
	"github.com/Galinha2/super-nova-2177/pkg/output"
	"github.com/Galinha2/super-nova-2177/pkg/session"
)

// ProfileService reads and edits the local profile
type ProfileService struct {
	session *session.Session
}

// NewProfileService creates a profile service
func NewProfileService(sess *session.Session) *ProfileService {
	return &ProfileService{session: sess}
}

// ProfileUpdate holds the fields to change; nil fields are kept
type ProfileUpdate struct {
	Name    *string
	Species *string
	Avatar  *string
}

// Show prints the profile
func (ps *ProfileService) Show() error {
	p := ps.session.Profile()
	avatar, isURL := session.AvatarOrInitials(p)
	if !isURL {
		avatar = "(initials) " + avatar
	}
	return output.PrintRecord("Profile", map[string]interface{}{
		"name":    p.Name,
		"species": string(p.Species),
		"avatar":  avatar,
	})
}

// Set applies u to the stored profile
func (ps *ProfileService) Set(u ProfileUpdate) (models.Identity, error) {
	p := ps.session.Profile()
	if u.Name != nil {
		p.Name = strings.TrimSpace(*u.Name)
	}
	if u.Species != nil {
		raw := strings.TrimSpace(*u.Species)
		if raw == "" {
			p.Species = ""
		} else {
			sp, ok := models.ParseSpecies(raw)
			if !ok {
				return p, fmt.Errorf("unknown species %q: use human, company or ai", raw)
			}
			p.Species = sp
		}
	}
	if u.Avatar != nil {
		p.AvatarURL = strings.TrimSpace(*u.Avatar)
	}
	if err := ps.session.SetProfile(p); err != nil {
		return p, err
	}
	notify.Success("Profile saved")
	return p, nil
}
