package shell

import (
	"github.com/codeloft/termdeck/backend/internal/platform"
)

// Preference names accepted from the settings boundary on Windows.
const (
	PrefSystem          = "system"
	PrefPowershell      = "powershell"
	PrefWindowsTerminal = "windowsterminal"
	PrefGitBash         = "gitbash"
	PrefCygwin          = "cygwin"
	PrefMsys2           = "msys2"
)

const defaultUnixShell = "/bin/bash"

// Fallback when %COMSPEC% is somehow unset.
const defaultComspec = `C:\Windows\System32\cmd.exe`

// windowsCandidates maps a named terminal preference to an ordered list of
// install locations. The first path that exists on disk wins.
var windowsCandidates = map[string][]string{
	PrefPowershell: {
		`C:\Program Files\PowerShell\7\pwsh.exe`,
		`C:\Program Files (x86)\PowerShell\7\pwsh.exe`,
		`C:\Windows\System32\WindowsPowerShell\v1.0\powershell.exe`,
	},
	PrefWindowsTerminal: {
		`C:\Program Files\PowerShell\7\pwsh.exe`,
		`C:\Windows\System32\WindowsPowerShell\v1.0\powershell.exe`,
	},
	PrefGitBash: {
		`C:\Program Files\Git\bin\bash.exe`,
		`C:\Program Files (x86)\Git\bin\bash.exe`,
	},
	PrefCygwin: {
		`C:\cygwin64\bin\bash.exe`,
		`C:\cygwin\bin\bash.exe`,
	},
	PrefMsys2: {
		`C:\msys64\usr\bin\bash.exe`,
		`C:\msys32\usr\bin\bash.exe`,
	},
}

// Resolver picks the shell executable for new sessions.
type Resolver struct {
	platform platform.Provider
}

// NewResolver creates a resolver bound to a platform provider.
func NewResolver(p platform.Provider) *Resolver {
	return &Resolver{platform: p}
}

// Resolve returns the shell executable and its invocation arguments for the
// given user preference. It never fails: an absent preferred shell degrades
// to the platform default.
//
// On Unix-like platforms the preference is ignored in favor of $SHELL (or
// /bin/bash), invoked as a login shell so profile files are sourced. On
// Windows an empty or "system" preference resolves to %COMSPEC%; named
// preferences consult the candidate table and fall back to %COMSPEC% when no
// candidate exists on disk.
func (r *Resolver) Resolve(preference string) (string, []string) {
	if r.platform.OS() != platform.Windows {
		sh := r.platform.Getenv("SHELL")
		if sh == "" {
			sh = defaultUnixShell
		}
		return sh, []string{"-l"}
	}

	if preference == "" || preference == PrefSystem {
		return r.comspec(), nil
	}

	for _, candidate := range windowsCandidates[preference] {
		if r.platform.FileExists(candidate) {
			return candidate, nil
		}
	}
	return r.comspec(), nil
}

// Classify maps an executable path to a shell Type on this platform.
func (r *Resolver) Classify(path string) Type {
	return Classify(path, r.platform.OS())
}

func (r *Resolver) comspec() string {
	if cs := r.platform.Getenv("COMSPEC"); cs != "" {
		return cs
	}
	return defaultComspec
}
