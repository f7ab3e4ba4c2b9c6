package provision

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/altekin/boxup/internal/platform"
)

func (s *Service) stepPrepare() error {
	for _, dir := range []string{s.Set.ProxyDir, s.Set.ForwarderDir} {
		if err := s.H.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return s.ensureHostsEntry()
}

// ensureHostsEntry appends a loopback mapping for the hostname so sudo and
// the installers don't stall on reverse lookups. Appended at most once.
func (s *Service) ensureHostsEntry() error {
	name := strings.TrimSpace(s.Target.Hostname)
	if name == "" || name == "unknown" {
		return nil
	}
	data, err := s.H.ReadFile("/etc/hosts")
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		for _, f := range fields[1:] {
			if f == name {
				return nil
			}
		}
	}
	content := string(data)
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += "127.0.1.1 " + name + "\n"
	return s.H.WriteFile("/etc/hosts", []byte(content), 0o644)
}

func (s *Service) stepPackages() error {
	cmds, ok := s.Target.Family.InstallCommands(s.Set.Packages)
	if !ok {
		s.Log.Warnf("no package manager known for %q, skipping base packages", s.Target.Family)
		return nil
	}
	for _, cmd := range cmds {
		if out, err := s.H.Run(cmd); err != nil {
			s.Log.Warnf("package install output:\n%s", strings.TrimSpace(out))
			return err
		}
	}
	s.Log.Infof("base packages installed: %s", strings.Join(s.Set.Packages, " "))
	return nil
}

func (s *Service) stepKernel() error {
	if s.Target.Family == platform.Alpine {
		s.Log.Infof("kernel tuning skipped on alpine")
		return nil
	}
	res, err := s.tuner.Apply(s.H)
	if err != nil {
		return err
	}
	if res.BackupPath != "" {
		s.Log.Infof("previous sysctl.conf saved to %s", res.BackupPath)
	}
	if !res.Applied {
		s.Log.Warnf("sysctl -p reported errors; some parameters may not be active")
	}
	if res.BBRActive {
		s.Log.Infof("congestion control: bbr")
	} else {
		s.Log.Warnf("congestion control is %q, not bbr — the kernel may be too old for BBR", res.CongestionControl)
	}
	if res.IPv6Disabled {
		s.Log.Infof("ipv6 disabled")
	} else {
		s.Log.Warnf("ipv6 disable flag did not take effect")
	}
	return nil
}
