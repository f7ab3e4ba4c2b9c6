package provision

import (
	"errors"
	"fmt"
	"path"

	"github.com/altekin/boxup/internal/fetch"
	"github.com/altekin/boxup/internal/platform"
)

// stepRuleData fetches geosite (mirror list, first success wins) and geoip
// (single URL) into the proxy dir and duplicates each into the forwarder
// dir. Partial failure is reported but does not stop the step.
func (s *Service) stepRuleData() error {
	var errs []error

	if url, err := s.Fetch.DownloadFirst(s.H, s.Set.GeositeMirrors, s.rulePath("geosite.dat"), 0o644); err != nil {
		errs = append(errs, fmt.Errorf("geosite.dat: %w", err))
	} else {
		s.Log.Infof("geosite.dat fetched from %s", url)
		errs = append(errs, s.duplicateRule("geosite.dat"))
	}

	if err := s.Fetch.Download(s.H, s.Set.GeoipURL, s.rulePath("geoip.dat"), 0o644); err != nil {
		errs = append(errs, fmt.Errorf("geoip.dat: %w", err))
	} else {
		s.Log.Infof("geoip.dat fetched")
		errs = append(errs, s.duplicateRule("geoip.dat"))
	}

	return errors.Join(errs...)
}

func (s *Service) rulePath(name string) string {
	return path.Join(s.Set.ProxyDir, name)
}

func (s *Service) duplicateRule(name string) error {
	if s.Target.Family == platform.Alpine {
		// no forwarder on alpine, nothing to mirror into
		return nil
	}
	src := path.Join(s.Set.ProxyDir, name)
	dst := path.Join(s.Set.ForwarderDir, name)
	if err := fetch.Duplicate(s.H, src, dst, 0o644); err != nil {
		return fmt.Errorf("duplicate %s: %w", name, err)
	}
	return nil
}
