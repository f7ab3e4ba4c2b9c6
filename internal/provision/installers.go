package provision

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/altekin/boxup/internal/platform"
)

// stepInstallProxy downloads and runs the official hysteria2 installer.
// A failed download is the one fatal error of the run besides the privilege
// check; a failed execution only warns.
func (s *Service) stepInstallProxy() error {
	tmp := s.tmpPath("hy2")
	if err := s.Fetch.Download(s.H, s.Set.ProxyInstallerURL, tmp, 0o700); err != nil {
		return fmt.Errorf("download proxy installer: %w", err)
	}
	s.track(tmp)

	out, err := s.H.Run("bash " + tmp)
	_ = s.H.Remove(tmp)
	if err != nil {
		s.Log.Warnf("hysteria2 installer exited with an error: %v\n%s", err, tail(out, 20))
		return nil
	}
	s.Log.Infof("hysteria2 installed")
	return nil
}

const forwarderDefaultConf = `[network]
use_udp = true

# sample rule, replace with your own
[[endpoints]]
listen = "0.0.0.0:5000"
remote = "127.0.0.1:443"
`

var forwarderUnitTmpl = template.Must(template.New("unit").Parse(`[Unit]
Description=realm port forwarding
After=network.target nss-lookup.target

[Service]
Type=simple
User=root
Restart=on-failure
RestartSec=5s
ExecStart={{.BinPath}} -c {{.ConfPath}}

[Install]
WantedBy=multi-user.target
`))

// stepInstallForwarder installs realm. Everything here degrades to a
// warning: the forwarder is optional and the run must finish without it.
func (s *Service) stepInstallForwarder() error {
	if s.Target.Family == platform.Alpine {
		s.Log.Infof("realm install skipped on alpine")
		return nil
	}

	tmp := s.tmpPath("realm")
	if err := s.Fetch.Download(s.H, s.Set.ForwarderInstallerURL, tmp, 0o700); err != nil {
		s.Log.Warnf("download realm installer: %v", err)
		return nil
	}
	s.track(tmp)

	out, err := s.H.Run("bash " + tmp)
	_ = s.H.Remove(tmp)
	if err != nil {
		s.Log.Warnf("realm installer exited with an error: %v\n%s", err, tail(out, 20))
		return nil
	}

	if err := s.H.MkdirAll(s.Set.ForwarderDir, 0o755); err != nil {
		return err
	}
	exists, err := s.H.FileExists(forwarderConfPath)
	if err != nil {
		return err
	}
	if !exists {
		if err := s.H.WriteFile(forwarderConfPath, []byte(forwarderDefaultConf), 0o644); err != nil {
			return err
		}
		s.Log.Infof("wrote default %s", forwarderConfPath)
	}

	var unit bytes.Buffer
	err = forwarderUnitTmpl.Execute(&unit, struct{ BinPath, ConfPath string }{forwarderBinPath, forwarderConfPath})
	if err != nil {
		return err
	}
	if err := s.H.WriteFile(forwarderUnitPath, unit.Bytes(), 0o644); err != nil {
		return err
	}
	if _, err := s.H.Run("systemctl daemon-reload"); err != nil {
		s.Log.Warnf("systemctl daemon-reload: %v", err)
	}
	if _, err := s.H.Run("systemctl enable " + forwarderUnit); err != nil {
		s.Log.Warnf("enable %s: %v", forwarderUnit, err)
	}
	s.Log.Infof("realm installed")
	return nil
}

// tail returns the last n lines of command output for warning messages.
func tail(out string, n int) string {
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
