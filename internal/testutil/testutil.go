// Package testutil provides shared helpers for tests that need table files
// on disk or check converted text.
//
// Typical usage:
//
//	func TestOverride(t *testing.T) {
//	    dir := testutil.WriteTables(t, map[string]string{
//	        "arpabet.toml": `source = "arpabet"` + "\n" + `target = "ipa"` + ...,
//	    })
//	    ...
//	}
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/unicode/norm"
)

// WriteTables writes every name/content pair into a fresh temporary
// directory and returns its path. Names may contain subdirectories.
func WriteTables(tb testing.TB, files map[string]string) string {
	tb.Helper()

	dir := tb.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			tb.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			tb.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

// AssertNFD fails the test if s is not in canonical decomposed form.
func AssertNFD(tb testing.TB, s string) {
	tb.Helper()

	if !norm.NFD.IsNormalString(s) {
		tb.Errorf("%q is not NFD (want %q)", s, norm.NFD.String(s))
	}
}
