package gitops

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Author identifies who records commits of the data directory.
type Author struct {
	Name  string
	Email string
}

// Repo is a git working tree holding a data directory.
type Repo struct {
	dir    string
	author Author
}

// Open returns the repository at dir. It does not check that dir is one.
func Open(dir string, author Author) *Repo {
	return &Repo{dir: dir, author: author}
}

// Init initializes a new git repository at dir.
func Init(ctx context.Context, dir string, author Author) (*Repo, error) {
	r := Open(dir, author)
	if _, err := r.git(ctx, "init", "--quiet"); err != nil {
		return nil, err
	}
	return r, nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Dirty reports whether the working tree has uncommitted changes.
func (r *Repo) Dirty(ctx context.Context) (bool, error) {
	out, err := r.git(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// CommitAll stages all files and creates a commit. Returns the short commit
// hash, or "" when there was nothing to commit.
func (r *Repo) CommitAll(ctx context.Context, message string) (string, error) {
	if _, err := r.git(ctx, "add", "-A"); err != nil {
		return "", err
	}

	dirty, err := r.Dirty(ctx)
	if err != nil {
		return "", err
	}
	if !dirty {
		return "", nil
	}

	if _, err := r.git(ctx, "commit", "--quiet", "-m", message); err != nil {
		return "", err
	}
	return r.git(ctx, "rev-parse", "--short", "HEAD")
}

func (r *Repo) git(ctx context.Context, args ...string) (string, error) {
	full := append([]string{
		"-c", "user.name=" + r.author.Name,
		"-c", "user.email=" + r.author.Email,
	}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)
	cmd.Dir = r.dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}
