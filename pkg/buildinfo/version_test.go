package buildinfo

import (
	"strings"
	"testing"
)

func TestCacheScope(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	defer func() { Version, Commit = oldVersion, oldCommit }()

	Version, Commit = "dev", "abc123"
	if got := CacheScope(); got != "dev-abc123:" {
		t.Errorf("CacheScope() = %q", got)
	}
	Version = "v1.2.0"
	if got := CacheScope(); got != "v1.2.0:" {
		t.Errorf("CacheScope() = %q", got)
	}
	if !strings.Contains(String(), "version: v1.2.0") {
		t.Errorf("String() = %q", String())
	}
}
