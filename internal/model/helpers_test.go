package model

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/Faultbox/trackmaker/internal/texture"
	"github.com/Faultbox/trackmaker/pkg/diag"
)

// writeFiles creates each name -> content pair under dir.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create dir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

func lines(l ...string) string {
	return strings.Join(l, "\n") + "\n"
}

// fakeLoader hands out sequential handles and records every call. Paths in
// fail are rejected.
type fakeLoader struct {
	mu     sync.Mutex
	calls  []string
	byPath map[string]texture.Handle
	fail   map[string]bool
}

func newFakeLoader(fail ...string) *fakeLoader {
	l := &fakeLoader{
		byPath: make(map[string]texture.Handle),
		fail:   make(map[string]bool),
	}
	for _, p := range fail {
		l.fail[p] = true
	}
	return l
}

func (l *fakeLoader) Resolve(path string) (texture.Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, path)
	if l.fail[filepath.Base(path)] {
		return texture.NoTexture, errors.New("decode failed")
	}
	if h, ok := l.byPath[path]; ok {
		return h, nil
	}
	h := texture.Handle(len(l.byPath))
	l.byPath[path] = h
	return h, nil
}

func (l *fakeLoader) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
}

func newTestAssembler(loader texture.Loader, sink diag.Sink) *Assembler {
	return NewAssembler(Options{
		Textures: loader,
		Sink:     sink,
		Logger:   zap.NewNop(),
	})
}
