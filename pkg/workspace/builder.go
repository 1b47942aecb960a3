package workspace

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/atelier-dev/atelier/pkg/template"
)

// Builder lays out the full initial workspace from a template store.
type Builder struct {
	store  template.Store
	base   zerolog.Logger
	logger zerolog.Logger
}

// NewBuilder returns a Builder that materializes entries from store.
func NewBuilder(store template.Store, logger zerolog.Logger) *Builder {
	return &Builder{
		store:  store,
		base:   logger,
		logger: logger.With().Str("component", "builder").Logger(),
	}
}

// BuildOptions control the build's precondition handling.
type BuildOptions struct {
	// Force confirms a destructive replace of a non-empty target
	// directory. Without it the build refuses to touch a non-empty
	// target at all.
	Force bool
}

// Build writes every template store entry under targetDir and the
// workspace configuration file, then opens and returns the resulting
// workspace.
//
// A write failure aborts the build with BuildFailed naming the path that
// failed; the partially written workspace is not cleaned up.
func (b *Builder) Build(ctx context.Context, targetDir string, opts BuildOptions) (*Workspace, error) {
	entries, err := os.ReadDir(targetDir)
	switch {
	case err == nil && len(entries) > 0:
		if !opts.Force {
			return nil, newError(CodeBuildFailed,
				"target directory is not empty; re-run with --force to replace it", targetDir, nil)
		}
		b.logger.Warn().Str("dir", targetDir).Msg("Replacing existing directory")
		if err := os.RemoveAll(targetDir); err != nil {
			return nil, newError(CodeBuildFailed, "failed to remove existing directory", targetDir, err)
		}
	case err != nil && !os.IsNotExist(err):
		return nil, newError(CodeBuildFailed, "failed to read target directory", targetDir, err)
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return nil, newError(CodeBuildFailed, "failed to create target directory", targetDir, err)
	}

	for _, entry := range b.store.List() {
		if err := ctx.Err(); err != nil {
			return nil, newError(CodeBuildFailed, "build cancelled", targetDir, err)
		}
		dst := filepath.Join(targetDir, filepath.FromSlash(entry.Path))
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return nil, newError(CodeBuildFailed, "failed to create directory", filepath.Dir(dst), err)
		}
		if err := os.WriteFile(dst, entry.Content, 0644); err != nil {
			return nil, newError(CodeBuildFailed, "failed to write template entry", dst, err)
		}
		b.logger.Debug().Str("path", entry.Path).Msg("Wrote template entry")
	}

	cfg := DefaultConfig()
	if err := SaveConfig(filepath.Join(targetDir, ConfigFileName), cfg); err != nil {
		return nil, err
	}

	b.logger.Info().
		Str("dir", targetDir).
		Str("workspace_id", cfg.WorkspaceID).
		Int("entries", len(b.store.List())).
		Msg("Workspace built")

	return Open(targetDir, b.base)
}
