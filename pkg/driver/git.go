package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GitFetcher materialises git dependencies under CacheDir/git/<name>/<commit>.
type GitFetcher struct {
	CacheDir string
}

// NewGitFetcher returns a fetcher rooted at cacheDir.
func NewGitFetcher(cacheDir string) *GitFetcher {
	return &GitFetcher{CacheDir: cacheDir}
}

// Checkout is a resolved git dependency on disk.
type Checkout struct {
	Dir    string
	Commit string
	Source string
}

// Fetch clones dep (or reuses a cached checkout) and returns the checked out
// directory. pinned, when non-empty, overrides the manifest's tag or branch
// with a commit recorded in the lockfile.
func (g *GitFetcher) Fetch(ctx context.Context, name string, dep *DependencySpec, pinned string) (*Checkout, error) {
	if dep == nil || dep.Git == "" {
		return nil, fmt.Errorf("git: dependency %q has no git source", name)
	}
	if g.CacheDir == "" {
		return nil, fmt.Errorf("git: cache directory not configured")
	}
	baseDir := filepath.Join(g.CacheDir, "git", sanitizeSegment(name))
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}

	revision := gitRevisionFromSpec(dep)
	if dep.Rev == "" && pinned != "" {
		revision = plumbing.Revision(pinned)
	}
	if plumbing.IsHash(string(revision)) {
		existing := filepath.Join(baseDir, string(revision))
		if _, err := os.Stat(existing); err == nil {
			return &Checkout{Dir: existing, Commit: string(revision), Source: gitSource(dep.Git, string(revision))}, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return nil, err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return nil, err
	}

	repo, err := git.PlainCloneContext(ctx, tmpDir, false, &git.CloneOptions{
		URL:  dep.Git,
		Tags: git.AllTags,
	})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("git clone %s: %w", dep.Git, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("resolve revision %s: %w", revision, err)
	}
	commit := hash.String()
	targetDir := filepath.Join(baseDir, commit)
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return &Checkout{Dir: targetDir, Commit: commit, Source: gitSource(dep.Git, commit)}, nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("git checkout %s: %w", revision, err)
	}
	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		if errors.Is(err, os.ErrExist) {
			return &Checkout{Dir: targetDir, Commit: commit, Source: gitSource(dep.Git, commit)}, nil
		}
		return nil, err
	}
	return &Checkout{Dir: targetDir, Commit: commit, Source: gitSource(dep.Git, commit)}, nil
}

func gitRevisionFromSpec(dep *DependencySpec) plumbing.Revision {
	switch {
	case dep.Rev != "":
		return plumbing.Revision(dep.Rev)
	case dep.Tag != "":
		return plumbing.Revision("refs/tags/" + dep.Tag)
	case dep.Branch != "":
		return plumbing.Revision("refs/remotes/origin/" + dep.Branch)
	default:
		return plumbing.Revision(plumbing.HEAD)
	}
}

func gitSource(url, commit string) string {
	return fmt.Sprintf("git+%s@%s", strings.TrimSpace(url), commit)
}
