// Package kernel writes the tuned sysctl parameter set, applies it to the
// running kernel and verifies the settings that matter most took effect.
package kernel

import (
	"fmt"
	"strings"
	"time"

	"github.com/altekin/boxup/internal/host"
)

const DefaultConfPath = "/etc/sysctl.conf"

// params is the full tuned set: BBR with fq, IPv6 off, TCP buffer/backlog
// sizing for a proxy workload, and forwarding enabled.
const params = `# managed-by: boxup
fs.file-max = 1000000

net.core.default_qdisc = fq
net.ipv4.tcp_congestion_control = bbr

net.ipv6.conf.all.disable_ipv6 = 1
net.ipv6.conf.default.disable_ipv6 = 1
net.ipv6.conf.lo.disable_ipv6 = 1

net.core.rmem_max = 67108864
net.core.wmem_max = 67108864
net.core.netdev_max_backlog = 10000
net.core.somaxconn = 4096
net.ipv4.tcp_syncookies = 1
net.ipv4.tcp_tw_reuse = 1
net.ipv4.tcp_fin_timeout = 30
net.ipv4.tcp_keepalive_time = 1200
net.ipv4.tcp_max_syn_backlog = 8192
net.ipv4.tcp_max_tw_buckets = 5000
net.ipv4.tcp_fastopen = 3
net.ipv4.tcp_rmem = 4096 87380 67108864
net.ipv4.tcp_wmem = 4096 65536 67108864
net.ipv4.tcp_mtu_probing = 1
net.ipv4.ip_forward = 1
`

func Params() string { return params }

type Tuner struct {
	ConfPath string
	Now      func() time.Time
}

func NewTuner() *Tuner {
	return &Tuner{ConfPath: DefaultConfPath, Now: time.Now}
}

type Result struct {
	BackupPath        string
	Applied           bool
	CongestionControl string
	BBRActive         bool
	IPv6Disabled      bool
}

// Apply backs up any existing conf, overwrites it with the tuned set,
// loads it into the running kernel and re-reads the congestion control and
// IPv6 settings. Only file operations can fail; sysctl mismatches are
// reported in the Result for the caller to warn about.
func (t *Tuner) Apply(h host.Host) (Result, error) {
	var res Result

	exists, err := h.FileExists(t.ConfPath)
	if err != nil {
		return res, fmt.Errorf("stat %s: %w", t.ConfPath, err)
	}
	if exists {
		backup := t.ConfPath + ".bak." + t.Now().Format("20060102150405")
		prev, err := h.ReadFile(t.ConfPath)
		if err != nil {
			return res, fmt.Errorf("read %s: %w", t.ConfPath, err)
		}
		if err := h.WriteFile(backup, prev, 0o644); err != nil {
			return res, fmt.Errorf("back up %s: %w", t.ConfPath, err)
		}
		res.BackupPath = backup
	}

	if err := h.WriteFile(t.ConfPath, []byte(params), 0o644); err != nil {
		return res, fmt.Errorf("write %s: %w", t.ConfPath, err)
	}

	if _, err := h.Run("sysctl -p " + t.ConfPath); err == nil {
		res.Applied = true
	}

	res.CongestionControl = t.readValue(h, "net.ipv4.tcp_congestion_control")
	res.BBRActive = res.CongestionControl == "bbr"
	res.IPv6Disabled = t.readValue(h, "net.ipv6.conf.all.disable_ipv6") == "1"
	return res, nil
}

func (t *Tuner) readValue(h host.Host, key string) string {
	out, err := h.Run("sysctl -n " + key)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}
