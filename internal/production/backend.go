package production

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/comalice/superstate/app"
)

// ErrUnknownPersister is returned by NewPersister for an unsupported kind.
var ErrUnknownPersister = errors.New("unknown persister kind")

// PersisterConfig selects and configures the snapshot backend.
type PersisterConfig struct {
	Kind       string // json, yaml, sqlite or s3; empty means json
	Dir        string // json and yaml directory, default sqlite location
	SQLitePath string
	S3         S3Config
}

// Environment variables read by PersisterConfigFromEnv:
//
//	SUPERSTATE_PERSISTER=json|yaml|sqlite|s3 (default json)
//	SUPERSTATE_PERSIST_DIR=<dir> (default os.TempDir())
//	SUPERSTATE_SQLITE_PATH=<file> (default <dir>/superstate.db)
//
// The s3 kind also reads the S3ConfigFromEnv variables.
type persisterEnv struct {
	Kind       string `env:"SUPERSTATE_PERSISTER"`
	Dir        string `env:"SUPERSTATE_PERSIST_DIR"`
	SQLitePath string `env:"SUPERSTATE_SQLITE_PATH"`
}

// PersisterConfigFromEnv reads a PersisterConfig from the environment.
func PersisterConfigFromEnv() (PersisterConfig, error) {
	var e persisterEnv
	if err := env.Parse(&e); err != nil {
		return PersisterConfig{}, fmt.Errorf("parse persister env: %w", err)
	}
	cfg := PersisterConfig{Kind: e.Kind, Dir: e.Dir, SQLitePath: e.SQLitePath}
	if cfg.Kind == "" {
		cfg.Kind = "json"
	}
	if cfg.Kind == "s3" {
		s3cfg, err := S3ConfigFromEnv()
		if err != nil {
			return PersisterConfig{}, err
		}
		cfg.S3 = s3cfg
	}
	return cfg, nil
}

// NewPersister builds the backend named by cfg.Kind. The returned close
// function releases the backend's resources and is never nil.
func NewPersister(ctx context.Context, cfg PersisterConfig) (app.Persister, func() error, error) {
	noop := func() error { return nil }
	dir := cfg.Dir
	if dir == "" {
		dir = os.TempDir()
	}

	var (
		p       app.Persister
		closeFn = noop
		err     error
	)
	switch cfg.Kind {
	case "", "json":
		p, err = NewJSONPersister(dir)
	case "yaml":
		p, err = NewYAMLPersister(dir)
	case "sqlite":
		path := cfg.SQLitePath
		if path == "" {
			path = filepath.Join(dir, "superstate.db")
		}
		var sp *SQLitePersister
		if sp, err = NewSQLitePersister(path); err == nil {
			p, closeFn = sp, sp.Close
		}
	case "s3":
		p, err = NewS3Persister(ctx, cfg.S3)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownPersister, cfg.Kind)
	}
	if err != nil {
		return nil, noop, fmt.Errorf("%s persister: %w", cfg.Kind, err)
	}
	return p, closeFn, nil
}
