package supervisor

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Mode selects how the backend is located and launched. It is fixed when
// botshell is built; see version.BuildMode.
type Mode string

const (
	// ModeDevelopment runs the backend script with an interpreter from the
	// project root.
	ModeDevelopment Mode = "development"

	// ModeProduction runs the bundled backend executable shipped next to
	// botshell.
	ModeProduction Mode = "production"
)

// ParseMode converts a build mode string to a Mode.
// "dev" and "prod" are accepted as short forms.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "development", "dev", "":
		return ModeDevelopment, nil
	case "production", "prod", "release":
		return ModeProduction, nil
	default:
		return "", fmt.Errorf("unknown build mode %q", s)
	}
}

// Invocation names the programs used in each mode.
type Invocation struct {
	// Interpreter runs Script in development mode.
	Interpreter string
	// Script is the backend entry point, relative to the project root.
	Script string
	// Binary is the bundled backend, relative to the install directory
	// unless absolute.
	Binary string
	// Env holds extra KEY=VALUE entries for the child environment.
	Env []string
}

// DefaultInvocation returns the stock development and production programs.
func DefaultInvocation() Invocation {
	return Invocation{
		Interpreter: "python3",
		Script:      "app.py",
		Binary:      filepath.Join("binaries", "python-server"),
	}
}

// Command resolves the backend command line for mode. exePath is the
// location of the running botshell executable.
//
// Development runs "<interpreter> <script>" with the working directory set
// to the project root, two levels above the executable's directory.
// Production runs the bundled binary with no arguments and no working
// directory override.
func (inv Invocation) Command(mode Mode, exePath string) (Command, error) {
	if exePath == "" {
		return Command{}, fmt.Errorf("resolve %s command: empty executable path", mode)
	}
	exeDir := filepath.Dir(exePath)

	switch mode {
	case ModeDevelopment:
		if inv.Interpreter == "" || inv.Script == "" {
			return Command{}, fmt.Errorf("resolve %s command: interpreter and script are required", mode)
		}
		return Command{
			Path: inv.Interpreter,
			Args: []string{inv.Script},
			Dir:  ProjectRoot(exePath),
			Env:  inv.Env,
		}, nil
	case ModeProduction:
		if inv.Binary == "" {
			return Command{}, fmt.Errorf("resolve %s command: binary is required", mode)
		}
		bin := inv.Binary
		if !filepath.IsAbs(bin) {
			bin = filepath.Join(exeDir, bin)
		}
		return Command{
			Path: bin,
			Env:  inv.Env,
		}, nil
	default:
		return Command{}, fmt.Errorf("resolve command: unknown mode %q", mode)
	}
}

// ProjectRoot returns the directory two levels above the executable's own
// directory.
func ProjectRoot(exePath string) string {
	return filepath.Clean(filepath.Join(filepath.Dir(exePath), "..", ".."))
}

// Command is a fully resolved backend command line.
type Command struct {
	Path string
	Args []string
	// Dir is the working directory. Empty inherits botshell's.
	Dir string
	Env []string
}

// String renders the command line for logs and status output.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Path
	}
	return c.Path + " " + strings.Join(c.Args, " ")
}
