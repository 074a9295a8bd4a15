package installer

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
)

// Installer installs packages by name. Bootstrap recovery takes the
// interface so tests can fake installation outcomes.
type Installer interface {
	// Install installs the named packages. It returns an error if any
	// package fails to install; partial success is still failure.
	Install(ctx context.Context, packages []string) error

	// InstallLatest installs the named packages pinned to their latest
	// version, used for packages present at an incompatible version.
	InstallLatest(ctx context.Context, packages []string) error
}

// NPM installs packages with the npm CLI.
type NPM struct {
	// Logger receives the command output summary. Defaults to
	// slog.Default() when nil.
	Logger *slog.Logger
}

// Install runs `npm install <packages...>` in the current directory.
func (n *NPM) Install(ctx context.Context, packages []string) error {
	return n.run(ctx, packages)
}

// InstallLatest installs each package with an explicit @latest tag.
func (n *NPM) InstallLatest(ctx context.Context, packages []string) error {
	pinned := make([]string, len(packages))
	for i, pkg := range packages {
		pinned[i] = pkg + "@latest"
	}
	return n.run(ctx, pinned)
}

// run executes one npm install invocation for all packages at once.
func (n *NPM) run(ctx context.Context, packages []string) error {
	if len(packages) == 0 {
		return nil
	}

	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}

	args := append([]string{"install"}, packages...)
	cmd := exec.CommandContext(ctx, "npm", args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		logger.Debug("npm install failed",
			"packages", packages,
			"output", string(output),
		)
		return fmt.Errorf("npm install failed for %d package(s): %w", len(packages), err)
	}

	logger.Debug("npm install succeeded", "packages", packages)
	return nil
}
