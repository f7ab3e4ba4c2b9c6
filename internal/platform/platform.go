// Package platform classifies the target OS and owns the per-family command
// tables (package manager, service manager). Every step that branches on the
// OS goes through this package rather than comparing strings inline.
package platform

import (
	"strings"

	"github.com/altekin/boxup/internal/host"
)

type Family string

const (
	Ubuntu  Family = "ubuntu"
	Debian  Family = "debian"
	CentOS  Family = "centos"
	RHEL    Family = "rhel"
	Fedora  Family = "fedora"
	Alpine  Family = "alpine"
	Unknown Family = "unknown"
)

func (f Family) String() string { return string(f) }

// UsesSystemd reports whether services are driven through systemctl.
// Alpine uses OpenRC; an unknown family is assumed to have systemd since
// every non-Alpine target boxup supports does.
func (f Family) UsesSystemd() bool { return f != Alpine }

// Detect classifies the host. It never fails: a host that matches nothing
// is Unknown, and later steps decide what that means for them.
func Detect(h host.Host) Family {
	if data, err := h.ReadFile("/etc/os-release"); err == nil {
		kv := ParseRelease(string(data))
		if f := classify(kv["ID"]); f != Unknown {
			return f
		}
		for _, like := range strings.Fields(kv["ID_LIKE"]) {
			if f := classify(like); f != Unknown {
				return f
			}
		}
	}
	if data, err := h.ReadFile("/etc/redhat-release"); err == nil {
		s := strings.ToLower(string(data))
		switch {
		case strings.Contains(s, "centos"):
			return CentOS
		case strings.Contains(s, "fedora"):
			return Fedora
		case strings.Contains(s, "red hat"):
			return RHEL
		}
	}
	return Unknown
}

func classify(id string) Family {
	switch strings.ToLower(strings.TrimSpace(id)) {
	case "ubuntu":
		return Ubuntu
	case "debian", "raspbian":
		return Debian
	case "centos":
		return CentOS
	case "rhel":
		return RHEL
	case "fedora":
		return Fedora
	case "alpine":
		return Alpine
	default:
		return Unknown
	}
}

// ParseRelease reads the KEY=value lines of an os-release file. Values may
// be double- or single-quoted; comment and malformed lines are skipped.
func ParseRelease(content string) map[string]string {
	kv := map[string]string{}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		val := strings.TrimSpace(parts[1])
		if len(val) >= 2 && (val[0] == '"' || val[0] == '\'') && val[len(val)-1] == val[0] {
			val = val[1 : len(val)-1]
		}
		kv[strings.TrimSpace(parts[0])] = val
	}
	return kv
}

// InstallCommands returns the command lines that install pkgs on this
// family, and false when the family has no known package manager.
func (f Family) InstallCommands(pkgs []string) ([]string, bool) {
	list := strings.Join(pkgs, " ")
	switch f {
	case Ubuntu, Debian:
		return []string{
			"DEBIAN_FRONTEND=noninteractive apt-get update -qq",
			"DEBIAN_FRONTEND=noninteractive apt-get install -y -qq " + list,
		}, true
	case CentOS, RHEL:
		return []string{"yum install -y -q " + list}, true
	case Fedora:
		return []string{"dnf install -y -q " + list}, true
	case Alpine:
		return []string{"apk add --no-progress " + list}, true
	default:
		return nil, false
	}
}

// ServiceActive returns the command that exits 0 iff unit is running.
func (f Family) ServiceActive(unit string) string {
	if f.UsesSystemd() {
		return "systemctl is-active --quiet " + unit
	}
	return "rc-service " + unit + " status >/dev/null 2>&1"
}

// ServiceEnableStart returns the commands that enable and start unit.
func (f Family) ServiceEnableStart(unit string) []string {
	if f.UsesSystemd() {
		return []string{
			"systemctl enable " + unit,
			"systemctl restart " + unit,
		}
	}
	return []string{
		"rc-update add " + unit + " default",
		"rc-service " + unit + " restart",
	}
}

// CheatSheet lists the operator commands for unit, per service manager.
func (f Family) CheatSheet(unit string) []string {
	if f.UsesSystemd() {
		return []string{
			"systemctl status " + unit,
			"systemctl restart " + unit,
			"journalctl -u " + unit + " -f",
		}
	}
	return []string{
		"rc-service " + unit + " status",
		"rc-service " + unit + " restart",
	}
}
