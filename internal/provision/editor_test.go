package provision

import (
	"strings"
	"testing"

	"github.com/altekin/boxup/internal/host"
)

func TestEnsureLinesIdempotentAcrossRuns(t *testing.T) {
	content := ""
	for i := 0; i < 5; i++ {
		next, changed := EnsureLines(content, vimrcDirectives)
		if i == 0 && !changed {
			t.Fatal("first run must add directives")
		}
		if i > 0 && changed {
			t.Fatalf("run %d changed content again", i)
		}
		content = next
	}
	for _, d := range vimrcDirectives {
		if got := strings.Count(content, d); got != 1 {
			t.Fatalf("directive %q appears %d times", d, got)
		}
	}
}

func TestEnsureLinesKeepsExistingAndAppendsMissing(t *testing.T) {
	in := "\" my settings\nset paste\nset number\n"
	out, changed := EnsureLines(in, vimrcDirectives)
	if !changed {
		t.Fatal("expected missing directives to be appended")
	}
	if strings.Count(out, "set paste") != 1 {
		t.Fatal("existing directive duplicated")
	}
	if !strings.HasPrefix(out, in) {
		t.Fatal("existing content must be preserved verbatim")
	}
	if !strings.Contains(out, "syntax on\n") || !strings.Contains(out, "set mouse-=a\n") {
		t.Fatalf("missing directives not appended:\n%s", out)
	}
}

func TestEnsureLinesHandlesMissingTrailingNewline(t *testing.T) {
	out, _ := EnsureLines("set paste", []string{"syntax on"})
	if !strings.Contains(out, "set paste\nsyntax on\n") {
		t.Fatalf("bad join: %q", out)
	}
}

func TestStepEditorCreatesVimrc(t *testing.T) {
	m := host.NewMemory()
	m.Home = "/root"
	svc, _, _ := newTestService(m, DefaultSettings())

	if err := svc.stepEditor(); err != nil {
		t.Fatalf("stepEditor: %v", err)
	}
	got := string(m.Files["/root/.vimrc"])
	for _, d := range vimrcDirectives {
		if !strings.Contains(got, d+"\n") {
			t.Fatalf("directive %q missing from vimrc:\n%s", d, got)
		}
	}

	// second run leaves the file alone
	if err := svc.stepEditor(); err != nil {
		t.Fatalf("second stepEditor: %v", err)
	}
	if string(m.Files["/root/.vimrc"]) != got {
		t.Fatal("second run modified vimrc")
	}
}
