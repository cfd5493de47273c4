package production

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
)

func TestNewPersister_Kinds(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  PersisterConfig
	}{
		{"default", PersisterConfig{Dir: dir}},
		{"json", PersisterConfig{Kind: "json", Dir: dir}},
		{"yaml", PersisterConfig{Kind: "yaml", Dir: dir}},
		{"sqlite", PersisterConfig{Kind: "sqlite", Dir: dir}},
		{"sqlite path", PersisterConfig{Kind: "sqlite", SQLitePath: filepath.Join(dir, "db", "snap.db")}},
		{"s3", PersisterConfig{Kind: "s3", S3: S3Config{
			Bucket:          "test-bucket",
			Endpoint:        "https://mock.s3.local",
			AccessKeyID:     "AKIA",
			SecretAccessKey: "SECRET",
			PathStyle:       true,
			HTTPClient:      &http.Client{Transport: &mockS3{state: make(map[string][]byte)}},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, closeFn, err := NewPersister(context.Background(), tt.cfg)
			if err != nil {
				t.Fatalf("NewPersister: %v", err)
			}
			defer func() {
				if err := closeFn(); err != nil {
					t.Errorf("close: %v", err)
				}
			}()
			roundTrip(t, p)
		})
	}
}

func TestNewPersister_Errors(t *testing.T) {
	_, closeFn, err := NewPersister(context.Background(), PersisterConfig{Kind: "redis"})
	if !errors.Is(err, ErrUnknownPersister) {
		t.Errorf("expected ErrUnknownPersister, got %v", err)
	}
	if closeFn == nil || closeFn() != nil {
		t.Error("close function should be a no-op on error")
	}

	if _, _, err := NewPersister(context.Background(), PersisterConfig{Kind: "s3"}); err == nil {
		t.Error("expected error for s3 without bucket")
	}
}

func TestPersisterConfigFromEnv(t *testing.T) {
	t.Setenv("SUPERSTATE_PERSISTER", "")
	t.Setenv("SUPERSTATE_PERSIST_DIR", "")
	t.Setenv("SUPERSTATE_SQLITE_PATH", "")

	cfg, err := PersisterConfigFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Kind != "json" {
		t.Errorf("default kind %q, want json", cfg.Kind)
	}

	t.Setenv("SUPERSTATE_PERSISTER", "sqlite")
	t.Setenv("SUPERSTATE_SQLITE_PATH", "/tmp/x.db")
	cfg, err = PersisterConfigFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Kind != "sqlite" || cfg.SQLitePath != "/tmp/x.db" {
		t.Errorf("unexpected config %+v", cfg)
	}

	t.Setenv("SUPERSTATE_PERSISTER", "s3")
	t.Setenv("SUPERSTATE_S3_BUCKET", "")
	if _, err := PersisterConfigFromEnv(); err == nil {
		t.Error("expected error for s3 without bucket")
	}
	t.Setenv("SUPERSTATE_S3_BUCKET", "bkt")
	cfg, err = PersisterConfigFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.S3.Bucket != "bkt" {
		t.Errorf("s3 config not read: %+v", cfg.S3)
	}
}
