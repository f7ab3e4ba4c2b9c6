package provision

import "github.com/altekin/boxup/internal/cli/config"

// Settings are the run-time constants of a provisioning run: what to
// install and where from. Defaults match the upstream projects; a YAML
// config may override any of them.
type Settings struct {
	Packages []string

	ProxyInstallerURL     string
	ForwarderInstallerURL string

	GeositeMirrors []string
	GeoipURL       string
	BlocklistURL   string
	BenchURL       string

	ProxyDir     string
	ForwarderDir string
}

const (
	forwarderUnit = "realm"

	forwarderBinPath  = "/usr/local/bin/realm"
	forwarderConfPath = "/etc/realm/config.toml"
	forwarderUnitPath = "/etc/systemd/system/realm.service"
)

func DefaultSettings() Settings {
	return Settings{
		Packages:              []string{"curl", "wget", "tar", "unzip", "socat", "vim"},
		ProxyInstallerURL:     "https://get.hy2.sh/",
		ForwarderInstallerURL: "https://raw.githubusercontent.com/zhboner/realm/master/install.sh",
		GeositeMirrors: []string{
			"https://raw.githubusercontent.com/Loyalsoldier/v2ray-rules-dat/release/geosite.dat",
			"https://cdn.jsdelivr.net/gh/Loyalsoldier/v2ray-rules-dat@release/geosite.dat",
			"https://ghproxy.net/https://raw.githubusercontent.com/Loyalsoldier/v2ray-rules-dat/release/geosite.dat",
		},
		GeoipURL:     "https://raw.githubusercontent.com/Loyalsoldier/v2ray-rules-dat/release/geoip.dat",
		BlocklistURL: "https://raw.githubusercontent.com/privacy-protection-tools/anti-AD/master/anti-ad-domains.txt",
		BenchURL:     "https://yabs.sh",
		ProxyDir:     "/etc/hysteria",
		ForwarderDir: "/etc/realm",
	}
}

// Merge overlays the non-empty fields of cfg. List fields replace
// wholesale rather than appending.
func (s *Settings) Merge(cfg *config.Config) {
	if cfg == nil {
		return
	}
	if len(cfg.Packages) > 0 {
		s.Packages = cfg.Packages
	}
	if cfg.ProxyInstallerURL != "" {
		s.ProxyInstallerURL = cfg.ProxyInstallerURL
	}
	if cfg.ForwarderInstallerURL != "" {
		s.ForwarderInstallerURL = cfg.ForwarderInstallerURL
	}
	if len(cfg.GeositeMirrors) > 0 {
		s.GeositeMirrors = cfg.GeositeMirrors
	}
	if cfg.GeoipURL != "" {
		s.GeoipURL = cfg.GeoipURL
	}
	if cfg.BlocklistURL != "" {
		s.BlocklistURL = cfg.BlocklistURL
	}
	if cfg.BenchURL != "" {
		s.BenchURL = cfg.BenchURL
	}
}
