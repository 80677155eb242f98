package service

import (
	"fmt"
	"strings"

	"github.com/Galinha2/super-nova-2177/internal/backend"
	"github.com/Galinha2/super-nova-2177/pkg/config"
	"github.com/Galinha2/super-nova-2177/pkg/notify"
	"github.com/Galinha2/super-nova-2177/pkg/output"
	"github.com/Galinha2/super-nova-2177/pkg/session"
)

// BackendService switches between the configured backend and demo data
type BackendService struct {
	session *session.Session
}

// NewBackendService creates a backend service
func NewBackendService(sess *session.Session) *BackendService {
	return &BackendService{session: sess}
}

// Show prints the toggle, the configured mode and the mode in effect
func (bs *BackendService) Show() error {
	active := bs.session.BackendActive()
	mode := config.GetString("backend.mode")
	return output.PrintRecord("Backend", map[string]interface{}{
		"active":     active,
		"configured": mode,
		"effective":  backend.EffectiveMode(active, mode),
		"api":        config.GetString("api.base_url"),
	})
}

// SetActive turns the configured backend on or off
func (bs *BackendService) SetActive(active bool) error {
	if err := bs.session.SetBackendActive(active); err != nil {
		return err
	}
	if active {
		notify.Success("Backend on", "mode", config.GetString("backend.mode"))
	} else {
		notify.Success("Backend off, showing demo data")
	}
	return nil
}

// SetMode stores the backend mode used while the backend is on
func (bs *BackendService) SetMode(mode string) error {
	mode = strings.ToLower(strings.TrimSpace(mode))
	switch mode {
	case backend.ModeREST, backend.ModeDB, backend.ModeDemo:
	default:
		return fmt.Errorf("unknown backend mode %q: use rest, db or demo", mode)
	}
	if err := config.SetString("backend.mode", mode); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	notify.Success("Backend mode set", "mode", mode)
	return nil
}
