package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ZerkerEOD/paytypes-backend/internal/config"
	"github.com/ZerkerEOD/paytypes-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportConfigError(t *testing.T) {
	vars := testutil.ValidEnv()
	delete(vars, "PROJECT_NAME")
	vars["PORT"] = "not-a-port"

	_, err := config.Load(config.Options{Environ: vars})
	require.Error(t, err)

	var out bytes.Buffer
	reportConfigError(&out, err)

	assert.Contains(t, out.String(), "Configuration has 2 problem(s):")
	assert.Contains(t, out.String(), "  PROJECT_NAME: ")
	assert.Contains(t, out.String(), "  PORT: ")
}

func TestReportConfigError_Other(t *testing.T) {
	var out bytes.Buffer
	reportConfigError(&out, errors.New("permission denied"))
	assert.Equal(t, "Configuration error: permission denied\n", out.String())
}

func TestCheckConfigCommand(t *testing.T) {
	root := t.TempDir()
	for key, value := range testutil.ValidEnv() {
		t.Setenv(key, value)
	}
	t.Setenv("PORT", "3000")

	previous := appRoot
	appRoot = root
	t.Cleanup(func() { appRoot = previous })

	var out bytes.Buffer
	checkConfigCmd.SetOut(&out)
	require.NoError(t, checkConfigCmd.RunE(checkConfigCmd, nil))
	assert.Equal(t, "Configuration OK: paytypes (test) on :3000\n", out.String())
}

func TestRootPath(t *testing.T) {
	previous := appRoot
	appRoot = "/srv/paytypes"
	t.Cleanup(func() { appRoot = previous })

	assert.Equal(t, filepath.Join("/srv/paytypes", "uploads"), rootPath("uploads"))
	assert.Equal(t, "/var/log/paytypes", rootPath("/var/log/paytypes"))
	assert.Equal(t, filepath.Join("/srv/paytypes", "db", "migrations"), migrationsPath())
}
