// Package summary re-derives the installed/running state of both services
// and renders the end-of-run report. Everything here is read-only.
package summary

import (
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/altekin/boxup/internal/host"
	"github.com/altekin/boxup/internal/platform"
)

type ServiceState struct {
	Name        string
	Unit        string
	Installed   bool
	Running     bool
	ConfigPaths []string
}

type Report struct {
	Label            string
	Hostname         string
	KernelRelease    string
	Family           platform.Family
	KernelSkipped    bool
	BBRActive        bool
	Proxy            ServiceState
	Forwarder        ServiceState
	ForwarderSkipped bool
}

// Collect queries the host for the current state. It never fails: a query
// error simply reads as "not installed"/"not running".
func Collect(h host.Host, fam platform.Family, hostname, kernelRelease, proxyDir, forwarderDir string) Report {
	r := Report{
		Label:         h.Label(),
		Hostname:      hostname,
		KernelRelease: kernelRelease,
		Family:        fam,
	}

	if fam == platform.Alpine {
		r.KernelSkipped = true
	} else if out, err := h.Run("sysctl -n net.ipv4.tcp_congestion_control"); err == nil {
		r.BBRActive = strings.TrimSpace(out) == "bbr"
	}

	r.Proxy = ServiceState{Name: "hysteria2", Unit: "hysteria-server"}
	r.Proxy.Installed = host.CommandExists(h, "hysteria")
	if _, err := h.Run(fam.ServiceActive(r.Proxy.Unit)); err == nil {
		r.Proxy.Running = true
	}
	if paths, err := h.Glob(path.Join(proxyDir, "config*.yaml")); err == nil {
		r.Proxy.ConfigPaths = paths
	}

	if fam == platform.Alpine {
		r.ForwarderSkipped = true
		return r
	}
	r.Forwarder = ServiceState{Name: "realm", Unit: "realm"}
	if ok, err := h.FileExists("/usr/local/bin/realm"); err == nil && ok {
		r.Forwarder.Installed = true
	} else if host.CommandExists(h, "realm") {
		r.Forwarder.Installed = true
	}
	if _, err := h.Run(fam.ServiceActive(r.Forwarder.Unit)); err == nil {
		r.Forwarder.Running = true
	}
	if ok, err := h.FileExists(path.Join(forwarderDir, "config.toml")); err == nil && ok {
		r.Forwarder.ConfigPaths = []string{path.Join(forwarderDir, "config.toml")}
	}
	return r
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true)
)

// Render formats the report. With noColor the styles are skipped so tests
// and piped output see plain text.
func (r Report) Render(noColor bool) string {
	style := func(s lipgloss.Style, text string) string {
		if noColor {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	fmt.Fprintln(&b, style(titleStyle, "boxup status report"))
	fmt.Fprintf(&b, "  target:   %s\n", r.Label)
	fmt.Fprintf(&b, "  os:       %s\n", r.Family)
	fmt.Fprintf(&b, "  hostname: %s\n", r.Hostname)
	fmt.Fprintf(&b, "  kernel:   %s\n", r.KernelRelease)
	switch {
	case r.KernelSkipped:
		fmt.Fprintln(&b, "  tuning:   kernel optimization skipped (alpine)")
	case r.BBRActive:
		fmt.Fprintln(&b, "  tuning:   bbr active")
	default:
		fmt.Fprintln(&b, "  tuning:   bbr NOT active")
	}

	writeService := func(st ServiceState) {
		fmt.Fprintln(&b, style(headerStyle, st.Name))
		fmt.Fprintf(&b, "  installed: %s\n", yesNo(st.Installed))
		fmt.Fprintf(&b, "  running:   %s\n", yesNo(st.Running))
		for _, p := range st.ConfigPaths {
			fmt.Fprintf(&b, "  config:    %s\n", p)
		}
		for _, cmd := range r.Family.CheatSheet(st.Unit) {
			fmt.Fprintf(&b, "  $ %s\n", cmd)
		}
	}

	fmt.Fprintln(&b)
	writeService(r.Proxy)
	if !r.ForwarderSkipped {
		fmt.Fprintln(&b)
		writeService(r.Forwarder)
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
