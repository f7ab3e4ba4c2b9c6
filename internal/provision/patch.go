package provision

import (
	"path"
	"regexp"
	"time"
)

// configSettleDelay gives the freshly installed service time to write its
// generated config before we go looking for it.
const configSettleDelay = 3 * time.Second

var bandwidthPlaceholder = regexp.MustCompile(`(?m)^([ \t]*)#[ \t]*ignoreClientBandwidth:.*$`)

// PatchProxyConfig activates the commented ignoreClientBandwidth line,
// preserving indentation and touching nothing else. The second return
// reports whether the content changed; already-patched input is returned
// unchanged, which makes the rewrite idempotent.
func PatchProxyConfig(content string) (string, bool) {
	patched := bandwidthPlaceholder.ReplaceAllString(content, "${1}ignoreClientBandwidth: true")
	return patched, patched != content
}

func (s *Service) stepPatchConfig() error {
	s.sleep(configSettleDelay)

	matches, err := s.H.Glob(path.Join(s.Set.ProxyDir, "config*.yaml"))
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		s.Log.Warnf("no generated config found under %s, skipping patch", s.Set.ProxyDir)
	}
	for _, p := range matches {
		data, err := s.H.ReadFile(p)
		if err != nil {
			continue
		}
		patched, changed := PatchProxyConfig(string(data))
		if !changed {
			continue
		}
		if err := s.H.WriteFile(p, []byte(patched), 0o644); err != nil {
			continue
		}
		s.Log.Infof("patched %s", p)
	}

	dest := path.Join(s.Set.ProxyDir, "blocklist.txt")
	if err := s.Fetch.Download(s.H, s.Set.BlocklistURL, dest, 0o644); err != nil {
		s.Log.Warnf("blocklist download: %v", err)
		return nil
	}
	s.Log.Infof("blocklist saved to %s", dest)
	return nil
}
