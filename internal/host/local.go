package host

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
)

// Local provisions the machine boxup itself runs on.
type Local struct{}

func NewLocal() *Local { return &Local{} }

func (l *Local) Label() string { return "localhost" }

func (l *Local) Run(cmd string) (string, error) {
	out, err := exec.Command("sh", "-c", cmd).CombinedOutput()
	return string(out), err
}

func (l *Local) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (l *Local) WriteFile(path string, data []byte, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, mode)
}

func (l *Local) FileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (l *Local) Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

func (l *Local) MkdirAll(path string, mode os.FileMode) error {
	return os.MkdirAll(path, mode)
}

func (l *Local) Remove(path string) error {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (l *Local) Hostname() (string, error) {
	return os.Hostname()
}

func (l *Local) HomeDir() (string, error) {
	return os.UserHomeDir()
}

func (l *Local) Privileged() (bool, error) {
	return os.Geteuid() == 0, nil
}
