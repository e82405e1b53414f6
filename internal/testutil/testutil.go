// Package testutil provides shared test utilities for omg tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/omglearn/omg/internal/constants"
	"github.com/omglearn/omg/internal/pattern"
	"github.com/omglearn/omg/internal/store"
)

// SetupStore creates temp global and local pattern stores, points the
// process at them (global via OMG_GLOBAL_DIR, local via chdir into a
// temp project root), and returns a Store seeded with the given
// patterns. Either slice may be nil for an absent file.
func SetupStore(t *testing.T, platform store.Platform, global, local []pattern.Pattern) *store.Store {
	t.Helper()

	t.Setenv(constants.EnvGlobalDir, t.TempDir())
	chdir(t, t.TempDir())

	s := store.New(platform)
	if global != nil {
		if err := s.Save(store.ScopeGlobal, global); err != nil {
			t.Fatal(err)
		}
	}
	if local != nil {
		if err := s.Save(store.ScopeLocal, local); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (unavailable before Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()

	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

// WriteScript writes an executable shell script into a temp dir and
// returns its path. Used for check_script predicate tests.
func WriteScript(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "check.sh")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}
