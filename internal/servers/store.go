// Package servers persists SSH target profiles so a host provisioned once
// can be re-run by name. Profiles never contain passwords.
package servers

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const DefaultDirSuffix = ".boxup/servers"

type Server struct {
	Name    string
	Host    string
	SSHPort int
	SSHUser string
}

type Store struct {
	Dir string
}

func NewStore(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, DefaultDirSuffix)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("ensure servers dir: %w", err)
	}
	return &Store{Dir: dir}, nil
}

func SanitizeName(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	raw = strings.ReplaceAll(raw, " ", "-")
	b := strings.Builder{}
	lastDash := false
	for _, r := range raw {
		ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == '_' || r == '-'
		if ok {
			if r == '-' {
				if lastDash {
					continue
				}
				lastDash = true
			} else {
				lastDash = false
			}
			b.WriteRune(r)
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("read servers dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".server") {
			names = append(names, strings.TrimSuffix(name, ".server"))
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.Dir, name+".server")
}

func (s *Store) Load(name string) (Server, error) {
	name = SanitizeName(name)
	if name == "" {
		return Server{}, errors.New("invalid server name")
	}
	f, err := os.Open(s.path(name))
	if err != nil {
		return Server{}, fmt.Errorf("open server profile: %w", err)
	}
	defer f.Close()

	vals := map[string]string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		vals[parts[0]] = parts[1]
	}
	if err := scanner.Err(); err != nil {
		return Server{}, fmt.Errorf("scan server profile: %w", err)
	}

	srv := Server{
		Name:    name,
		Host:    vals["HOST"],
		SSHPort: parseIntDefault(vals["SSH_PORT"], 22),
		SSHUser: defaultIfEmpty(vals["SSH_USER"], "root"),
	}
	if strings.TrimSpace(srv.Host) == "" {
		return Server{}, fmt.Errorf("server profile %q missing HOST", name)
	}
	return srv, nil
}

func (s *Store) Save(srv Server) (Server, error) {
	srv.Name = SanitizeName(srv.Name)
	if srv.Name == "" {
		return Server{}, errors.New("server name is required")
	}
	if strings.TrimSpace(srv.Host) == "" {
		return Server{}, errors.New("server host is required")
	}
	if srv.SSHPort == 0 {
		srv.SSHPort = 22
	}
	if strings.TrimSpace(srv.SSHUser) == "" {
		srv.SSHUser = "root"
	}

	content := strings.Join([]string{
		"HOST=" + srv.Host,
		"SSH_PORT=" + strconv.Itoa(srv.SSHPort),
		"SSH_USER=" + srv.SSHUser,
		"",
	}, "\n")

	if err := os.WriteFile(s.path(srv.Name), []byte(content), 0o600); err != nil {
		return Server{}, fmt.Errorf("write server profile: %w", err)
	}
	return srv, nil
}

func (s *Store) Delete(name string) error {
	name = SanitizeName(name)
	if name == "" {
		return errors.New("invalid server name")
	}
	if err := os.Remove(s.path(name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("delete server profile: %w", err)
	}
	return nil
}

func defaultIfEmpty(v, d string) string {
	if strings.TrimSpace(v) == "" {
		return d
	}
	return v
}

func parseIntDefault(raw string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
