package main

import (
	"os"
	"path/filepath"
	"testing"

	nlperrors "kubegems.io/nlpdata/pkg/errors"
)

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envfile := filepath.Join(dir, "nlpdata.env")
	if err := os.WriteFile(envfile, []byte("NLPDATA_PYTHON=/opt/venv/bin/python\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvFile, envfile)
	t.Setenv("NLPDATA_PYTHON", "")
	os.Unsetenv("NLPDATA_PYTHON")

	if err := loadEnv(); err != nil {
		t.Fatalf("loadEnv() error = %v", err)
	}
	if got := os.Getenv("NLPDATA_PYTHON"); got != "/opt/venv/bin/python" {
		t.Errorf("NLPDATA_PYTHON = %q", got)
	}
}

func TestLoadEnvMissing(t *testing.T) {
	t.Setenv(EnvFile, filepath.Join(t.TempDir(), "missing.env"))
	if err := loadEnv(); !nlperrors.IsErrCode(err, nlperrors.ErrCodeConfigInvalid) {
		t.Errorf("loadEnv() error = %v, want %s", err, nlperrors.ErrCodeConfigInvalid)
	}
}
