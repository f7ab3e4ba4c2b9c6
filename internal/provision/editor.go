package provision

import (
	"errors"
	"io/fs"
	"path"
	"strings"
)

var vimrcDirectives = []string{
	"set paste",
	"set mouse-=a",
	"syntax on",
}

// EnsureLines appends each directive that no existing line starts with.
// Running it any number of times adds each directive exactly once.
func EnsureLines(content string, directives []string) (string, bool) {
	changed := false
	lines := strings.Split(content, "\n")
	for _, d := range directives {
		found := false
		for _, line := range lines {
			if strings.HasPrefix(strings.TrimSpace(line), d) {
				found = true
				break
			}
		}
		if found {
			continue
		}
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		content += d + "\n"
		lines = append(lines, d)
		changed = true
	}
	return content, changed
}

func (s *Service) stepEditor() error {
	home, err := s.H.HomeDir()
	if err != nil {
		return err
	}
	vimrc := path.Join(home, ".vimrc")

	data, err := s.H.ReadFile(vimrc)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	content, changed := EnsureLines(string(data), vimrcDirectives)
	if !changed {
		s.Log.Infof("%s already set up", vimrc)
		return nil
	}
	if err := s.H.WriteFile(vimrc, []byte(content), 0o644); err != nil {
		return err
	}
	s.Log.Infof("updated %s", vimrc)
	return nil
}
