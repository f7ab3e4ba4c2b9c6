package platform

import (
	"strings"
	"testing"

	"github.com/altekin/boxup/internal/host"
)

func TestDetectFromOSRelease(t *testing.T) {
	cases := map[string]Family{
		"ID=ubuntu\nVERSION_ID=\"22.04\"\n":          Ubuntu,
		"ID=debian\n":                                Debian,
		"ID=\"centos\"\n":                            CentOS,
		"ID='rhel'\n":                                RHEL,
		"ID=fedora\n":                                Fedora,
		"ID=alpine\nPRETTY_NAME=\"Alpine Linux\"\n":  Alpine,
		"ID=linuxmint\nID_LIKE=\"ubuntu debian\"\n":  Ubuntu,
		"ID=rocky\nID_LIKE=\"rhel centos fedora\"\n": RHEL,
		"ID=nixos\n":                                 Unknown,
		"garbage without equals\n":                   Unknown,
	}
	for content, want := range cases {
		m := host.NewMemory()
		m.Files["/etc/os-release"] = []byte(content)
		if got := Detect(m); got != want {
			t.Fatalf("Detect(%q)=%q want %q", content, got, want)
		}
	}
}

func TestDetectRedhatReleaseFallback(t *testing.T) {
	m := host.NewMemory()
	m.Files["/etc/redhat-release"] = []byte("CentOS Linux release 7.9.2009 (Core)\n")
	if got := Detect(m); got != CentOS {
		t.Fatalf("expected centos, got %q", got)
	}
}

func TestDetectNothingIsUnknownButNonEmpty(t *testing.T) {
	m := host.NewMemory()
	got := Detect(m)
	if got != Unknown {
		t.Fatalf("expected unknown, got %q", got)
	}
	if got.String() == "" {
		t.Fatal("classification token must be non-empty")
	}
}

func TestParseReleaseQuoting(t *testing.T) {
	kv := ParseRelease("# comment\nID=\"ubuntu\"\nNAME='Ubuntu'\nEMPTY=\nBROKEN\n")
	if kv["ID"] != "ubuntu" || kv["NAME"] != "Ubuntu" {
		t.Fatalf("unexpected parse: %v", kv)
	}
	if v, ok := kv["EMPTY"]; !ok || v != "" {
		t.Fatalf("expected empty value, got %q ok=%v", v, ok)
	}
	if _, ok := kv["BROKEN"]; ok {
		t.Fatal("malformed line should be skipped")
	}
}

func TestInstallCommands(t *testing.T) {
	pkgs := []string{"curl", "wget"}

	cmds, ok := Ubuntu.InstallCommands(pkgs)
	if !ok || len(cmds) != 2 || !strings.Contains(cmds[1], "apt-get install -y -qq curl wget") {
		t.Fatalf("unexpected ubuntu commands: %v", cmds)
	}
	cmds, ok = Alpine.InstallCommands(pkgs)
	if !ok || !strings.Contains(cmds[0], "apk add") {
		t.Fatalf("unexpected alpine commands: %v", cmds)
	}
	cmds, ok = Fedora.InstallCommands(pkgs)
	if !ok || !strings.Contains(cmds[0], "dnf install") {
		t.Fatalf("unexpected fedora commands: %v", cmds)
	}
	if _, ok := Unknown.InstallCommands(pkgs); ok {
		t.Fatal("unknown family must have no install commands")
	}
}

func TestServiceCommandsByFamily(t *testing.T) {
	if got := Debian.ServiceActive("realm"); !strings.Contains(got, "systemctl is-active") {
		t.Fatalf("unexpected debian service check: %q", got)
	}
	if got := Alpine.ServiceActive("hysteria-server"); !strings.Contains(got, "rc-service") {
		t.Fatalf("unexpected alpine service check: %q", got)
	}
	if Alpine.UsesSystemd() {
		t.Fatal("alpine must not use systemd")
	}
	if !Unknown.UsesSystemd() {
		t.Fatal("unknown defaults to systemd")
	}
}
