package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"

	errs "github.com/matzehuels/deplic/pkg/errors"
)

type cloneFunc func(ctx context.Context, url, dir string) error

var remoteReplacer = strings.NewReplacer(
	"git@github.com:", "https://github.com/",
	"git@gitlab.com:", "https://gitlab.com/",
	"git://github.com/", "https://github.com/",
)

// IsRemote reports whether ref names a source-control repository rather
// than a local path.
func IsRemote(ref string) bool {
	for _, p := range []string{"http://", "https://", "ssh://", "git://", "git@", "git+"} {
		if strings.HasPrefix(ref, p) {
			return true
		}
	}
	return false
}

// NormalizeRemote converts a repository reference to a cloneable URL.
// It strips git+ prefixes and trailing slashes, and rewrites GitHub and
// GitLab scp-style addresses to HTTPS. A trailing ".git" is kept.
func NormalizeRemote(ref string) string {
	s := strings.TrimSpace(ref)
	s = strings.TrimPrefix(s, "git+")
	s = remoteReplacer.Replace(s)
	return strings.TrimRight(s, "/")
}

func (l *Locator) locateRemote(ctx context.Context, ref string) (*Project, error) {
	url := NormalizeRemote(ref)
	if strings.HasPrefix(url, "http") {
		if err := errs.ValidateURL(url); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidReference, err, "invalid repository URL %s", ref)
		}
	}

	dir, err := os.MkdirTemp("", "deplic-clone-*")
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "create clone directory")
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	if err := l.clone(ctx, url, dir); err != nil {
		cleanup()
		return nil, errs.Wrap(errs.ErrCodeInvalidReference, err, "clone %s", url)
	}

	descs, err := l.scanDir(dir)
	if err != nil {
		cleanup()
		return nil, err
	}
	return &Project{Ref: ref, Kind: RefRemote, Root: dir, Manifests: descs, cleanup: cleanup}, nil
}

// gitClone fetches the default branch tip only.
func gitClone(ctx context.Context, url, dir string) error {
	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:          url,
		Depth:        1,
		SingleBranch: true,
		Tags:         git.NoTags,
	})
	if err != nil {
		return fmt.Errorf("git clone: %w", err)
	}
	return nil
}
