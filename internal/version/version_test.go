package version

import "testing"

func TestVersionInitialized(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if BuildTime == "" || GitCommit == "" {
		t.Error("build metadata should be initialized")
	}
}
