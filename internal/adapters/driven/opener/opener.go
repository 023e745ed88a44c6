// Package opener launches files in the operating system's default application.
package opener

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/custodia-labs/sqlcommenter/internal/core/domain"
	"github.com/custodia-labs/sqlcommenter/internal/core/ports/driven"
)

// Operating system identifiers.
const (
	osDarwin  = "darwin"
	osWindows = "windows"
)

// Ensure Opener implements the interface.
var _ driven.Opener = (*Opener)(nil)

// Opener runs the platform launcher: open on macOS, the Windows URL
// protocol handler on Windows, and xdg-open on Linux and the BSDs.
type Opener struct {
	goos string
	run  func(name string, args ...string) error
}

// New creates an opener for the running platform.
func New() *Opener {
	return &Opener{
		goos: runtime.GOOS,
		run:  runCommand,
	}
}

// Open launches path and waits for the launcher process to exit.
// A missing launcher or a non-zero exit status is reported as domain.ErrEditorLaunch.
func (o *Opener) Open(path string) error {
	name, args, err := o.command(path)
	if err != nil {
		return err
	}
	if err := o.run(name, args...); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrEditorLaunch, name, err)
	}
	return nil
}

// command returns the launcher invocation for path.
func (o *Opener) command(path string) (string, []string, error) {
	switch o.goos {
	case osDarwin:
		return "open", []string{path}, nil
	case osWindows:
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}, nil
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly", "solaris", "illumos":
		return "xdg-open", []string{path}, nil
	default:
		return "", nil, fmt.Errorf("%w: %s: %w", domain.ErrEditorLaunch, o.goos, domain.ErrUnsupportedPlatform)
	}
}

func runCommand(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}
