// Package sourcelink derives web links to source files from their git checkout.
package sourcelink

import (
	"errors"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/griddle/internal/logfields"
)

// RemoteName is the remote whose URL links point at.
const RemoteName = "origin"

// repoInfo holds what a link needs from one work tree. A nil *repoInfo marks a
// folder that is not inside a usable repository.
type repoInfo struct {
	root   string
	remote string
	branch string
}

// Resolver maps files to "{remote}/blob/{branch}/{path}" URLs. Repository
// lookups are cached per folder. It is safe for concurrent use.
type Resolver struct {
	mu   sync.Mutex
	dirs map[string]*repoInfo
}

// NewResolver creates an empty Resolver.
func NewResolver() *Resolver {
	return &Resolver{dirs: map[string]*repoInfo{}}
}

// URL returns the blob URL of file, or false when the file is not tracked by a
// repository with an origin remote.
func (r *Resolver) URL(file string) (string, bool) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", false
	}
	info := r.lookup(filepath.Dir(abs))
	if info == nil {
		return "", false
	}

	rel, err := filepath.Rel(info.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return BlobURL(info.remote, info.branch, filepath.ToSlash(rel)), true
}

func (r *Resolver) lookup(dir string) *repoInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	if info, ok := r.dirs[dir]; ok {
		return info
	}
	info := open(dir)
	r.dirs[dir] = info
	return info
}

func open(dir string) *repoInfo {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if !errors.Is(err, git.ErrRepositoryNotExists) {
			slog.Debug("Unable to open repository", logfields.Path(dir), logfields.Error(err))
		}
		return nil
	}

	wt, err := repo.Worktree()
	if err != nil {
		slog.Debug("Repository has no work tree", logfields.Path(dir), logfields.Error(err))
		return nil
	}

	remote, err := repo.Remote(RemoteName)
	if err != nil || len(remote.Config().URLs) == 0 {
		slog.Debug("Repository has no origin remote", logfields.Path(dir))
		return nil
	}

	branch, ok := headName(repo)
	if !ok {
		return nil
	}

	info := &repoInfo{
		root:   wt.Filesystem.Root(),
		remote: NormalizeRemote(remote.Config().URLs[0]),
		branch: branch,
	}
	slog.Debug("Resolved source repository",
		logfields.Repository(info.root),
		logfields.URL(info.remote),
		logfields.Branch(info.branch))
	return info
}

// headName returns the branch HEAD points at, or the commit hash when detached.
func headName(repo *git.Repository) (string, bool) {
	ref, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", false
	}
	if ref.Type() == plumbing.SymbolicReference {
		return ref.Target().Short(), true
	}
	return ref.Hash().String(), true
}

// NormalizeRemote turns a clone URL into a browsable https base URL:
// "git@host:org/repo.git" and "ssh://git@host/org/repo.git" both become
// "https://host/org/repo".
func NormalizeRemote(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSuffix(s, ".git")

	switch {
	case strings.HasPrefix(s, "git@"):
		s = "https://" + strings.Replace(strings.TrimPrefix(s, "git@"), ":", "/", 1)
	case strings.HasPrefix(s, "ssh://"):
		if u, err := url.Parse(s); err == nil {
			u.Scheme = "https"
			u.User = nil
			u.Host = u.Hostname()
			s = u.String()
		}
	}
	return s
}

// BlobURL joins a normalised remote, a branch and a forward-slash path.
func BlobURL(remote, branch, rel string) string {
	segments := strings.Split(rel, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimSuffix(remote, "/") + "/blob/" + branch + "/" + strings.Join(segments, "/")
}
