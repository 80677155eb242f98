// Package backend selects and builds the data source the feed reads from
// and writes to: the REST API, the database directly, or generated demo data.
package backend

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/Galinha2/super-nova-2177/internal/database"
	"github.com/Galinha2/super-nova-2177/internal/feed"
	"github.com/Galinha2/super-nova-2177/internal/logger"
	"github.com/Galinha2/super-nova-2177/internal/models"
	"github.com/Galinha2/super-nova-2177/internal/repository"
	"github.com/Galinha2/super-nova-2177/internal/storage"
	"github.com/Galinha2/super-nova-2177/pkg/api"
	"github.com/Galinha2/super-nova-2177/pkg/client"
	"go.uber.org/zap"
)

// openDatabase is replaced in tests
var openDatabase = database.Open

// Modes
const (
	ModeREST = "rest"
	ModeDB   = "db"
	ModeDemo = "demo"
)

// Storage drivers
const (
	StorageRemote = "remote"
	StorageS3     = "s3"
	StorageLocal  = "local"
)

// StorageOptions selects where attachments are uploaded when the backend
// does not accept uploads itself
type StorageOptions struct {
	Driver   string
	Region   string
	Bucket   string
	BaseURL  string
	LocalDir string
}

// Options describes which backend to build
type Options struct {
	// Active is the session toggle; when false the demo backend is used
	Active bool
	Mode   string

	APIBaseURL string
	APITimeout time.Duration

	DBDriver string
	DSN      string

	Storage StorageOptions

	DemoSeed  uint64
	DemoCount int
}

// Selection is an opened backend
type Selection struct {
	Mode     string
	Backend  feed.Backend
	Uploader feed.MediaUploader
	// Get loads one proposal by ID
	Get   func(ctx context.Context, id string) (*models.Proposal, error)
	close func() error
}

// Close releases connections held by the backend
func (s *Selection) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// EffectiveMode resolves the session toggle and configured mode
func EffectiveMode(active bool, mode string) string {
	if !active {
		return ModeDemo
	}
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeDB:
		return ModeDB
	case ModeDemo:
		return ModeDemo
	default:
		return ModeREST
	}
}

// Open builds the backend described by opts
func Open(ctx context.Context, opts Options) (*Selection, error) {
	mode := EffectiveMode(opts.Active, opts.Mode)
	logger.Log.Debug("Opening backend", logger.WithMode(mode))

	switch mode {
	case ModeDemo:
		count := opts.DemoCount
		if count <= 0 {
			count = 12
		}
		d := NewDemo(opts.DemoSeed, count)
		return &Selection{Mode: mode, Backend: d, Uploader: d, Get: d.Get}, nil

	case ModeDB:
		db, err := openDatabase(opts.DBDriver, opts.DSN)
		if err != nil {
			return nil, err
		}
		closeDB := func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		if err := database.Migrate(db); err != nil {
			_ = closeDB()
			return nil, err
		}
		b := NewDB(repository.NewProposalRepository(db))
		up, err := openUploader(ctx, opts.Storage, nil)
		if err != nil {
			_ = closeDB()
			return nil, err
		}
		return &Selection{Mode: mode, Backend: b, Uploader: up, Get: b.Get, close: closeDB}, nil

	default:
		timeout := opts.APITimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		c := api.New(client.New(opts.APIBaseURL, timeout))
		up, err := openUploader(ctx, opts.Storage, c)
		if err != nil {
			return nil, err
		}
		return &Selection{Mode: ModeREST, Backend: c, Uploader: up, Get: c.GetProposal}, nil
	}
}

// openUploader picks the attachment store. remote means "let the API take
// it", which falls back to local storage when there is no API.
func openUploader(ctx context.Context, opts StorageOptions, remote feed.MediaUploader) (feed.MediaUploader, error) {
	driver := strings.ToLower(strings.TrimSpace(opts.Driver))
	if driver == "" || driver == StorageRemote {
		if remote != nil {
			return remote, nil
		}
		driver = StorageLocal
	}

	switch driver {
	case StorageS3:
		if opts.Bucket == "" {
			return nil, fmt.Errorf("storage.s3.bucket is required for the s3 driver")
		}
		u, err := storage.NewS3Uploader(ctx, opts.Region, opts.Bucket, opts.BaseURL)
		if err != nil {
			return nil, err
		}
		return storage.MediaUploader{Uploader: u}, nil
	case StorageLocal:
		dir := opts.LocalDir
		if dir == "" {
			dir = "uploads"
		}
		base := opts.BaseURL
		if base == "" {
			abs, err := filepath.Abs(dir)
			if err != nil {
				return nil, err
			}
			base = (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
		}
		u, err := storage.NewLocalUploader(dir, base)
		if err != nil {
			return nil, err
		}
		logger.Log.Debug("Using local media storage", zap.String("dir", dir))
		return storage.MediaUploader{Uploader: u}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
