// Package host abstracts the machine being provisioned so the same steps
// run against localhost or an SSH target.
package host

import "os"

// Host is the surface provisioning steps are written against. Run executes
// a shell command line and returns its combined output; a non-zero exit is
// reported through the error.
type Host interface {
	Label() string
	Run(cmd string) (string, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, mode os.FileMode) error
	FileExists(path string) (bool, error)
	Glob(pattern string) ([]string, error)
	MkdirAll(path string, mode os.FileMode) error
	Remove(path string) error
	Hostname() (string, error)
	HomeDir() (string, error)
	Privileged() (bool, error)
}

// CommandExists reports whether name resolves on the host PATH.
func CommandExists(h Host, name string) bool {
	_, err := h.Run("command -v " + name)
	return err == nil
}
