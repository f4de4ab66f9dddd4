package shell

import (
	"testing"

	"github.com/codeloft/termdeck/backend/internal/platform"
)

// fakePlatform implements platform.Provider for resolver tests.
type fakePlatform struct {
	goos  string
	env   map[string]string
	files map[string]bool
}

func (f *fakePlatform) OS() string                 { return f.goos }
func (f *fakePlatform) Getenv(key string) string   { return f.env[key] }
func (f *fakePlatform) FileExists(path string) bool { return f.files[path] }

func TestResolveUnixUsesShellEnv(t *testing.T) {
	r := NewResolver(&fakePlatform{
		goos: platform.Linux,
		env:  map[string]string{"SHELL": "/usr/bin/zsh"},
	})

	path, args := r.Resolve("")
	if path != "/usr/bin/zsh" {
		t.Errorf("expected $SHELL to win, got %q", path)
	}
	if len(args) != 1 || args[0] != "-l" {
		t.Errorf("expected login-shell flag, got %v", args)
	}
}

func TestResolveUnixDefault(t *testing.T) {
	r := NewResolver(&fakePlatform{goos: platform.Darwin, env: map[string]string{}})

	path, args := r.Resolve("powershell") // preference is a Windows concept; ignored here
	if path != "/bin/bash" {
		t.Errorf("expected /bin/bash default, got %q", path)
	}
	if len(args) != 1 || args[0] != "-l" {
		t.Errorf("expected login-shell flag, got %v", args)
	}
}

func TestResolveWindowsSystem(t *testing.T) {
	comspec := `C:\Windows\System32\cmd.exe`
	r := NewResolver(&fakePlatform{
		goos: platform.Windows,
		env:  map[string]string{"COMSPEC": comspec},
	})

	for _, pref := range []string{"", PrefSystem} {
		path, args := r.Resolve(pref)
		if path != comspec {
			t.Errorf("Resolve(%q) = %q, want COMSPEC", pref, path)
		}
		if len(args) != 0 {
			t.Errorf("Resolve(%q) args = %v, want none", pref, args)
		}
	}
}

func TestResolveWindowsPreferenceFirstCandidate(t *testing.T) {
	pwsh := `C:\Program Files\PowerShell\7\pwsh.exe`
	legacy := `C:\Windows\System32\WindowsPowerShell\v1.0\powershell.exe`

	r := NewResolver(&fakePlatform{
		goos:  platform.Windows,
		env:   map[string]string{"COMSPEC": `C:\Windows\System32\cmd.exe`},
		files: map[string]bool{pwsh: true, legacy: true},
	})

	path, _ := r.Resolve(PrefPowershell)
	if path != pwsh {
		t.Errorf("expected first existing candidate %q, got %q", pwsh, path)
	}
}

func TestResolveWindowsPreferenceSkipsMissing(t *testing.T) {
	legacy := `C:\Windows\System32\WindowsPowerShell\v1.0\powershell.exe`

	r := NewResolver(&fakePlatform{
		goos:  platform.Windows,
		env:   map[string]string{"COMSPEC": `C:\Windows\System32\cmd.exe`},
		files: map[string]bool{legacy: true},
	})

	path, _ := r.Resolve(PrefPowershell)
	if path != legacy {
		t.Errorf("expected fallthrough to %q, got %q", legacy, path)
	}
}

// A preference whose candidates are all absent is not an error: resolution
// degrades to the system interpreter.
func TestResolveWindowsPreferenceDegrades(t *testing.T) {
	comspec := `C:\Windows\System32\cmd.exe`
	r := NewResolver(&fakePlatform{
		goos: platform.Windows,
		env:  map[string]string{"COMSPEC": comspec},
	})

	for _, pref := range []string{PrefGitBash, PrefCygwin, PrefMsys2, "no-such-terminal"} {
		path, _ := r.Resolve(pref)
		if path != comspec {
			t.Errorf("Resolve(%q) = %q, want COMSPEC fallback", pref, path)
		}
	}
}

func TestResolveWindowsComspecUnset(t *testing.T) {
	r := NewResolver(&fakePlatform{goos: platform.Windows, env: map[string]string{}})

	path, _ := r.Resolve(PrefSystem)
	if path != defaultComspec {
		t.Errorf("expected hardcoded cmd.exe fallback, got %q", path)
	}
}

func TestResolverClassifyUsesPlatform(t *testing.T) {
	unix := NewResolver(&fakePlatform{goos: platform.Linux, env: map[string]string{}})
	win := NewResolver(&fakePlatform{goos: platform.Windows, env: map[string]string{}})

	if got := unix.Classify("/usr/local/bin/something"); got != Bash {
		t.Errorf("unix fallback = %q, want bash", got)
	}
	if got := win.Classify(`C:\something\else.exe`); got != Unknown {
		t.Errorf("windows fallback = %q, want unknown", got)
	}
}
