package summary

import (
	"errors"
	"strings"
	"testing"

	"github.com/altekin/boxup/internal/host"
	"github.com/altekin/boxup/internal/platform"
)

func TestCollectDebianAllRunning(t *testing.T) {
	m := host.NewMemory()
	m.Files["/usr/local/bin/realm"] = []byte{}
	m.Files["/etc/hysteria/config.yaml"] = []byte("listen: :443\n")
	m.Files["/etc/realm/config.toml"] = []byte("")
	m.RunFn = func(cmd string) (string, error) {
		switch {
		case strings.Contains(cmd, "tcp_congestion_control"):
			return "bbr\n", nil
		case strings.Contains(cmd, "command -v hysteria"):
			return "/usr/local/bin/hysteria\n", nil
		default:
			return "", nil
		}
	}

	r := Collect(m, platform.Debian, "vps-1", "6.1.0-18-amd64", "/etc/hysteria", "/etc/realm")

	if !r.BBRActive || r.KernelSkipped {
		t.Fatalf("unexpected kernel state: %+v", r)
	}
	if !r.Proxy.Installed || !r.Proxy.Running {
		t.Fatalf("unexpected proxy state: %+v", r.Proxy)
	}
	if !r.Forwarder.Installed || !r.Forwarder.Running {
		t.Fatalf("unexpected forwarder state: %+v", r.Forwarder)
	}
	if len(r.Proxy.ConfigPaths) != 1 || r.Proxy.ConfigPaths[0] != "/etc/hysteria/config.yaml" {
		t.Fatalf("unexpected proxy config paths: %v", r.Proxy.ConfigPaths)
	}

	out := r.Render(true)
	if !strings.Contains(out, "bbr active") {
		t.Fatalf("missing bbr line:\n%s", out)
	}
	if !strings.Contains(out, "systemctl status hysteria-server") {
		t.Fatalf("missing cheat sheet:\n%s", out)
	}
}

func TestCollectAlpineSkipsKernelAndForwarder(t *testing.T) {
	m := host.NewMemory()
	m.RunFn = func(cmd string) (string, error) {
		return "", errors.New("not running")
	}

	r := Collect(m, platform.Alpine, "alp-1", "6.6.0-virt", "/etc/hysteria", "/etc/realm")
	if !r.KernelSkipped || !r.ForwarderSkipped {
		t.Fatalf("unexpected skips: %+v", r)
	}
	if m.Ran("sysctl -n") {
		t.Fatal("sysctl must not be queried on alpine")
	}

	out := r.Render(true)
	if !strings.Contains(out, "kernel optimization skipped") {
		t.Fatalf("missing skip line:\n%s", out)
	}
	if strings.Contains(out, "realm") {
		t.Fatalf("forwarder section must be omitted on alpine:\n%s", out)
	}
	if !strings.Contains(out, "rc-service hysteria-server status") {
		t.Fatalf("alpine cheat sheet must use rc-service:\n%s", out)
	}
}

func TestCollectNothingInstalled(t *testing.T) {
	m := host.NewMemory()
	m.RunFn = func(cmd string) (string, error) {
		return "", errors.New("absent")
	}
	r := Collect(m, platform.Ubuntu, "fresh", "5.15.0", "/etc/hysteria", "/etc/realm")
	if r.Proxy.Installed || r.Proxy.Running || r.Forwarder.Installed {
		t.Fatalf("fresh host must read as not installed: %+v", r)
	}
	out := r.Render(true)
	if !strings.Contains(out, "bbr NOT active") {
		t.Fatalf("missing tuning line:\n%s", out)
	}
}
