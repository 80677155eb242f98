// Package session keeps the local profile and backend toggle between runs.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Galinha2/super-nova-2177/internal/models"
	"github.com/spf13/viper"
)

// FileName is the session file inside the config dir
const FileName = "session.toml"

const (
	keyName          = "profile.name"
	keySpecies       = "profile.species"
	keyAvatar        = "profile.avatar"
	keyBackendActive = "backend.active"
)

// Session is the locally persisted profile. Every setter writes the file.
type Session struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
}

// Open loads dir/session.toml, creating dir if needed. A missing file is an
// empty session.
func Open(dir string) (*Session, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session dir: %w", err)
	}
	path := filepath.Join(dir, FileName)

	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigFile(path)
	v.SetDefault(keyBackendActive, true)
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read session: %w", err)
		}
	}
	return &Session{v: v, path: path}, nil
}

// Path returns the session file path
func (s *Session) Path() string {
	return s.path
}

// Profile returns the stored identity. Fields may be empty.
func (s *Session) Profile() models.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.Identity{
		Name:      s.v.GetString(keyName),
		Species:   models.Species(s.v.GetString(keySpecies)),
		AvatarURL: s.v.GetString(keyAvatar),
	}
}

// SetProfile replaces the stored identity
func (s *Session) SetProfile(id models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(keyName, strings.TrimSpace(id.Name))
	s.v.Set(keySpecies, strings.TrimSpace(string(id.Species)))
	s.v.Set(keyAvatar, strings.TrimSpace(id.AvatarURL))
	return s.writeLocked()
}

// BackendActive reports whether the configured backend is used instead of demo data
func (s *Session) BackendActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetBool(keyBackendActive)
}

// SetBackendActive toggles between the configured backend and demo data
func (s *Session) SetBackendActive(active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(keyBackendActive, active)
	return s.writeLocked()
}

func (s *Session) writeLocked() error {
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return os.Chmod(s.path, 0600)
}

// Initials abbreviates a display name: the first letter of each word for
// multi-word names, the first two letters of a single word.
func Initials(name string) string {
	words := strings.Fields(name)
	switch len(words) {
	case 0:
		return ""
	case 1:
		r := []rune(words[0])
		if len(r) > 2 {
			r = r[:2]
		}
		return strings.ToUpper(string(r))
	}
	var b strings.Builder
	for _, w := range words {
		b.WriteString(strings.ToUpper(string([]rune(w)[0])))
	}
	return b.String()
}

// AvatarOrInitials returns the avatar URL when it points at a jpeg or png,
// and the initials of the name otherwise. The bool reports which one it is.
func AvatarOrInitials(id models.Identity) (string, bool) {
	u := strings.ToLower(strings.TrimSpace(id.AvatarURL))
	for _, ext := range []string{".jpeg", ".jpg", ".png"} {
		if strings.HasSuffix(u, ext) {
			return id.AvatarURL, true
		}
	}
	return Initials(id.Name), false
}
