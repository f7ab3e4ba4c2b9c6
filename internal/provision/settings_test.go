package provision

import (
	"testing"

	"github.com/altekin/boxup/internal/cli/config"
)

func TestMergeNilKeepsDefaults(t *testing.T) {
	set := DefaultSettings()
	set.Merge(nil)
	if set.ProxyInstallerURL != "https://get.hy2.sh/" {
		t.Fatalf("defaults lost: %q", set.ProxyInstallerURL)
	}
	if len(set.GeositeMirrors) != 3 {
		t.Fatalf("expected 3 default mirrors, got %d", len(set.GeositeMirrors))
	}
}

func TestMergeReplacesListsWholesale(t *testing.T) {
	set := DefaultSettings()
	set.Merge(&config.Config{
		GeositeMirrors: []string{"https://only.example.com/geosite.dat"},
		BenchURL:       "https://bench.example.com",
	})
	if len(set.GeositeMirrors) != 1 {
		t.Fatalf("mirror list must be replaced, got %v", set.GeositeMirrors)
	}
	if set.BenchURL != "https://bench.example.com" {
		t.Fatalf("bench URL not overridden: %q", set.BenchURL)
	}
	// untouched fields keep defaults
	if set.GeoipURL == "" || set.BlocklistURL == "" {
		t.Fatal("unset overrides must not clear defaults")
	}
}
