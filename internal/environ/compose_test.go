package environ

import (
	"strings"
	"testing"
)

func toMap(env []string) map[string]string {
	m := make(map[string]string, len(env))
	for _, entry := range env {
		key, value, _ := strings.Cut(entry, "=")
		m[key] = value
	}
	return m
}

func TestComposeStripsDenied(t *testing.T) {
	base := []string{"PATH=/usr/bin", "DEBUG=1", "API_KEY=sk-inherited", "HOME=/home/u"}

	got := toMap(Compose(base, nil))

	if _, ok := got["DEBUG"]; ok {
		t.Error("DEBUG should be stripped from inherited environment")
	}
	if _, ok := got["API_KEY"]; ok {
		t.Error("API_KEY should be stripped from inherited environment")
	}
	if got["PATH"] != "/usr/bin" || got["HOME"] != "/home/u" {
		t.Errorf("unrelated variables must pass through, got %v", got)
	}
}

func TestComposeOverlayWins(t *testing.T) {
	base := []string{"PATH=/usr/bin", "PROFILE=default"}
	overlay := map[string]string{"PROFILE": "work", "EXTRA": "1"}

	got := toMap(Compose(base, overlay))

	if got["PROFILE"] != "work" {
		t.Errorf("overlay must win over inherited value, got %q", got["PROFILE"])
	}
	if got["EXTRA"] != "1" {
		t.Error("overlay-only variables must be added")
	}
}

func TestComposeOverlayMayReintroduceDenied(t *testing.T) {
	base := []string{"API_KEY=sk-inherited"}
	overlay := map[string]string{"API_KEY": "sk-profile"}

	got := toMap(Compose(base, overlay))

	if got["API_KEY"] != "sk-profile" {
		t.Errorf("explicit overlay credential must be honored, got %q", got["API_KEY"])
	}
}

func TestComposeForcesTerminalCapabilities(t *testing.T) {
	base := []string{"TERM=dumb", "COLORTERM="}
	overlay := map[string]string{"TERM": "vt100"}

	got := toMap(Compose(base, overlay))

	if got["TERM"] != "xterm-256color" {
		t.Errorf("TERM must be pinned, got %q", got["TERM"])
	}
	if got["COLORTERM"] != "truecolor" {
		t.Errorf("COLORTERM must be pinned, got %q", got["COLORTERM"])
	}
}

func TestComposeDoesNotMutateInputs(t *testing.T) {
	base := []string{"A=1", "DEBUG=1"}
	overlay := map[string]string{"B": "2"}

	Compose(base, overlay)

	if base[0] != "A=1" || base[1] != "DEBUG=1" {
		t.Error("base slice was mutated")
	}
	if len(overlay) != 1 || overlay["B"] != "2" {
		t.Error("overlay map was mutated")
	}
}

func TestComposeMalformedEntriesDropped(t *testing.T) {
	got := toMap(Compose([]string{"NOEQUALS", "OK=yes"}, nil))

	if _, ok := got["NOEQUALS"]; ok {
		t.Error("entries without '=' should be dropped")
	}
	if got["OK"] != "yes" {
		t.Error("well-formed entries must survive")
	}
}
