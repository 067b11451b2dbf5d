package helpers

import (
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
)

// SetupTestGitRepo initializes a temporary git repository for testing.
// When remoteURL is non-empty an "origin" remote pointing at it is added.
// Returns the repository and the absolute path to its work tree.
func SetupTestGitRepo(t *testing.T, remoteURL string) (*git.Repository, string) {
	t.Helper()

	tempDir := t.TempDir()

	repo, err := git.PlainInit(tempDir, false)
	if err != nil {
		t.Fatalf("failed to initialize git repo: %v", err)
	}

	if remoteURL != "" {
		if _, err := repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{remoteURL}}); err != nil {
			t.Fatalf("failed to create remote: %v", err)
		}
	}

	return repo, tempDir
}
