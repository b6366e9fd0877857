package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// Repository is a RevisionSource backed by the git executable.
type Repository struct {
	root   string
	gitBin string
	logger *log.Logger
}

var _ RevisionSource = (*Repository)(nil)

// Open locates the repository containing dir. An empty dir means the current
// working directory. Failures are returned as *StartupError.
func Open(dir string, logger *log.Logger) (*Repository, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, startupErr("open working directory", fmt.Errorf("%w: %v", ErrBadWorkingDir, err))
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, startupErr("open working directory", fmt.Errorf("%w: %v", ErrBadWorkingDir, err))
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, startupErr("open working directory", fmt.Errorf("%w: %v", ErrBadWorkingDir, err))
	}
	if !info.IsDir() {
		return nil, startupErr("open working directory", fmt.Errorf("%w: %s is not a directory", ErrBadWorkingDir, abs))
	}

	gitBin, err := exec.LookPath("git")
	if err != nil {
		return nil, startupErr("locate git", ErrGitMissing)
	}

	r := &Repository{root: abs, gitBin: gitBin, logger: logger}

	bare, err := r.output(context.Background(), "rev-parse", "--is-bare-repository")
	if err != nil {
		return nil, startupErr("open repository", fmt.Errorf("%w: %s", ErrNotRepository, abs))
	}
	if bare != "true" {
		top, err := r.output(context.Background(), "rev-parse", "--show-toplevel")
		if err != nil {
			return nil, startupErr("open repository", fmt.Errorf("%w: %s", ErrNotRepository, abs))
		}
		r.root = top
	}

	logger.Debug("opened repository", "root", r.root, "git", gitBin, "bare", bare == "true")
	return r, nil
}

// Root returns the repository's top-level directory.
func (r *Repository) Root() string {
	return r.root
}

// Resolve checks that committish names a commit and returns its full hash.
// An empty committish resolves HEAD.
func (r *Repository) Resolve(committish string) (string, error) {
	if committish == "" {
		committish = "HEAD"
	}
	if strings.HasPrefix(committish, "-") {
		return "", startupErr("resolve "+committish, ErrBadRevision)
	}
	id, err := r.output(context.Background(), "rev-parse", "--verify", "--quiet", committish+"^{commit}")
	if err != nil || id == "" {
		return "", startupErr("resolve "+committish, ErrBadRevision)
	}
	return id, nil
}

// CurrentBranch returns the checked out branch name, or "" when HEAD is detached.
func (r *Repository) CurrentBranch() string {
	name, err := r.output(context.Background(), "symbolic-ref", "--quiet", "--short", "HEAD")
	if err != nil {
		return ""
	}
	return name
}

// Log starts a revision walk.
func (r *Repository) Log(ctx context.Context, opts LogOptions) (CommitStream, error) {
	rev := opts.Rev
	if rev == "" {
		rev = "HEAD"
	}
	args := []string{"log", "-z", "--decorate=full", "--format=" + logFormat}
	if len(opts.Paths) > 0 {
		// Rewrite parents so the graph stays connected when commits are filtered out.
		args = append(args, "--parents")
	}
	if opts.MaxCount > 0 {
		args = append(args, "--max-count="+strconv.Itoa(opts.MaxCount))
	}
	args = append(args, rev, "--")
	args = append(args, opts.Paths...)

	proc, stdout, err := startProcess(ctx, r.command(ctx, args...))
	if err != nil {
		return nil, err
	}
	r.logger.Debug("log stream started", "rev", rev, "paths", opts.Paths)
	return newLogStream(stdout, proc), nil
}

// Diff starts streaming the patch of a single commit.
func (r *Repository) Diff(ctx context.Context, id string, paths []string) (LineStream, error) {
	if id == "" || strings.HasPrefix(id, "-") {
		return nil, fmt.Errorf("%w: %q", ErrBadRevision, id)
	}
	args := []string{"show", "--no-color", "--no-ext-diff", "--pretty=fuller", "--stat", "--patch", id, "--"}
	args = append(args, paths...)

	proc, stdout, err := startProcess(ctx, r.command(ctx, args...))
	if err != nil {
		return nil, err
	}
	r.logger.Debug("diff stream started", "commit", id)
	return newLineStream(stdout, proc), nil
}

func (r *Repository) command(ctx context.Context, args ...string) *exec.Cmd {
	full := append([]string{"-C", r.root, "-c", "core.quotePath=false"}, args...)
	cmd := exec.CommandContext(ctx, r.gitBin, full...)
	// Never take index locks: this is a read-only browser.
	cmd.Env = append(os.Environ(), "GIT_OPTIONAL_LOCKS=0", "GIT_PAGER=cat")
	return cmd
}

func (r *Repository) output(ctx context.Context, args ...string) (string, error) {
	out, err := r.command(ctx, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("git %s: %s", args[0], strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return strings.TrimSpace(string(out)), nil
}
