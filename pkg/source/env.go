package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/matzehuels/deplic/pkg/deps"
	errs "github.com/matzehuels/deplic/pkg/errors"
)

type freezeFunc func(ctx context.Context, python string) ([]byte, error)

// Interpreter returns the python executable for ref, which is either an
// interpreter path or a virtualenv directory.
func Interpreter(ref string) (string, error) {
	info, err := os.Stat(ref)
	if err != nil {
		if path, lookErr := exec.LookPath(ref); lookErr == nil {
			return path, nil
		}
		return "", errs.Wrap(errs.ErrCodeInvalidReference, err, "python environment not found: %s", ref)
	}
	if !info.IsDir() {
		return ref, nil
	}

	candidates := []string{filepath.Join(ref, "bin", "python"), filepath.Join(ref, "bin", "python3")}
	if runtime.GOOS == "windows" {
		candidates = []string{filepath.Join(ref, "Scripts", "python.exe")}
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", errs.New(errs.ErrCodeInvalidReference, "no python interpreter in %s", ref)
}

func (l *Locator) locateEnv(ctx context.Context, ref string) (*Project, error) {
	python, err := Interpreter(ref)
	if err != nil {
		return nil, err
	}

	out, err := l.freeze(ctx, python)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidReference, err, "pip freeze with %s", python)
	}

	f, err := os.CreateTemp("", "deplic-freeze-*.txt")
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "create freeze file")
	}
	cleanup := func() { _ = os.Remove(f.Name()) }
	if _, err := f.Write(out); err != nil {
		f.Close()
		cleanup()
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "write freeze file")
	}
	if err := f.Close(); err != nil {
		cleanup()
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "write freeze file")
	}

	return &Project{
		Ref:       ref,
		Kind:      RefEnvironment,
		Root:      filepath.Dir(python),
		Manifests: []deps.Descriptor{{Path: f.Name(), Kind: deps.KindFreeze}},
		cleanup:   cleanup,
	}, nil
}

// pipFreeze runs "python -m pip freeze" in the current directory without
// a shell. The process working directory is left untouched.
func pipFreeze(ctx context.Context, python string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, python, "-m", "pip", "freeze")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}
