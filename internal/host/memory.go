package host

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-memory Host used by tests across the provisioning
// packages. Commands are delegated to RunFn so each test scripts exactly
// the external behavior it needs.
type Memory struct {
	mu    sync.Mutex
	Files map[string][]byte
	Modes map[string]os.FileMode

	RunFn    func(cmd string) (string, error)
	Commands []string
	Removed  []string

	Name string
	Home string
	Root bool
}

func NewMemory() *Memory {
	return &Memory{
		Files: map[string][]byte{},
		Modes: map[string]os.FileMode{},
		Name:  "testhost",
		Home:  "/root",
		Root:  true,
	}
}

func (m *Memory) Label() string { return "memory" }

func (m *Memory) Run(cmd string) (string, error) {
	m.mu.Lock()
	m.Commands = append(m.Commands, cmd)
	fn := m.RunFn
	m.mu.Unlock()
	if fn != nil {
		return fn(cmd)
	}
	return "", nil
}

func (m *Memory) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *Memory) WriteFile(path string, data []byte, mode os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.Files[path] = cp
	m.Modes[path] = mode
	return nil
}

func (m *Memory) FileExists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Files[path]
	return ok, nil
}

func (m *Memory) Glob(pattern string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for path := range m.Files {
		ok, err := filepath.Match(pattern, path)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *Memory) MkdirAll(string, os.FileMode) error { return nil }

func (m *Memory) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Removed = append(m.Removed, path)
	delete(m.Files, path)
	return nil
}

func (m *Memory) Hostname() (string, error) { return m.Name, nil }

func (m *Memory) HomeDir() (string, error) {
	if m.Home == "" {
		return "", errors.New("no home dir configured")
	}
	return m.Home, nil
}

func (m *Memory) Privileged() (bool, error) { return m.Root, nil }

// Ran reports whether any recorded command contains substr.
func (m *Memory) Ran(substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.Commands {
		if strings.Contains(c, substr) {
			return true
		}
	}
	return false
}
