package workspace

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/atelier-dev/atelier/pkg/template"
)

// Instantiator clones the canonical template member into new named
// members. One instantiation runs to completion before another may
// start; uniqueness is enforced by re-reading the members directory, not
// by any in-memory state. Supporting concurrent instantiation would
// require an exclusive lock (a lock file in the workspace root) around
// the scan-allocate-create sequence.
type Instantiator struct {
	ws     *Workspace
	alloc  PortAllocator
	logger zerolog.Logger
}

// NewInstantiator returns an Instantiator for the opened workspace ws.
func NewInstantiator(ws *Workspace, alloc PortAllocator, logger zerolog.Logger) *Instantiator {
	return &Instantiator{
		ws:     ws,
		alloc:  alloc,
		logger: logger.With().Str("component", "instantiator").Logger(),
	}
}

// Instantiate creates the named member: clone the template tree into a
// temporary directory, rewrite the manifest identity, allocate a port,
// write the environment file, then atomically rename into place. Any
// failure before the rename removes the temporary clone, so a member is
// either fully present or absent, never partial.
func (i *Instantiator) Instantiate(ctx context.Context, name string) (*Member, error) {
	if err := i.ws.checkMemberName(name); err != nil {
		return nil, err
	}

	dstDir := i.ws.MemberDir(name)
	if _, err := os.Stat(dstDir); err == nil {
		return nil, newError(CodeMemberAlreadyExists,
			fmt.Sprintf("member %q already exists", name), dstDir, nil)
	} else if !os.IsNotExist(err) {
		return nil, newError(CodeMemberAlreadyExists,
			fmt.Sprintf("failed to check member %q", name), dstDir, err)
	}

	tmplDir := i.ws.TemplateDir()
	if _, err := os.Stat(tmplDir); err != nil {
		return nil, newError(CodeTemplateMissing, "canonical template member not found", tmplDir, err)
	}

	// Allocate before cloning so the in-flight temp directory can never
	// influence the member count.
	port, err := i.alloc.Next()
	if err != nil {
		return nil, err
	}

	member := &Member{
		Name:        name,
		DisplayName: DisplayName(name, i.ws.Config.MemberPrefix),
		ClientID:    name,
		Port:        port,
	}

	tmpDir, err := os.MkdirTemp(i.ws.MembersDir(), ".atelier-"+name+"-")
	if err != nil {
		return nil, newError(CodePartialWrite, "failed to create staging directory", i.ws.MembersDir(), err)
	}
	// MkdirTemp creates 0700; the member directory should look like any
	// other checkout.
	if err := os.Chmod(tmpDir, 0755); err != nil {
		os.RemoveAll(tmpDir)
		return nil, newError(CodePartialWrite, "failed to set staging directory mode", tmpDir, err)
	}
	success := false
	defer func() {
		if !success {
			if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
				i.logger.Error().Err(rmErr).Str("dir", tmpDir).Msg("Failed to roll back staging directory")
			}
		}
	}()

	if err := copyTree(ctx, tmplDir, tmpDir); err != nil {
		return nil, newError(CodePartialWrite, "failed to clone template", tmpDir, err)
	}

	manifestPath := filepath.Join(tmpDir, ManifestFileName)
	if err := rewriteManifestName(manifestPath, i.ws.Config.Template, name); err != nil {
		return nil, newError(CodePartialWrite, "failed to rewrite manifest identity", manifestPath, err)
	}

	env, err := template.RenderEnv(template.EnvParams{
		APIBaseURL:  i.ws.Config.APIBaseURL,
		ClientID:    member.ClientID,
		Port:        member.Port,
		DisplayName: member.DisplayName,
	})
	if err != nil {
		return nil, newError(CodePartialWrite, "failed to render environment file", tmpDir, err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, EnvFileName), env, 0644); err != nil {
		return nil, newError(CodePartialWrite, "failed to write environment file", tmpDir, err)
	}

	if err := os.Rename(tmpDir, dstDir); err != nil {
		return nil, newError(CodePartialWrite, "failed to move member into place", dstDir, err)
	}
	success = true

	i.logger.Info().
		Str("member", member.Name).
		Int("port", member.Port).
		Str("client_id", member.ClientID).
		Msg("Member instantiated")

	return member, nil
}

// copyTree recursively copies the directory tree at src to dst,
// preserving relative structure and file modes. Payload files are copied
// byte-for-byte.
func copyTree(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			if rel == "." {
				return nil
			}
			return os.MkdirAll(target, 0755)
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return copyFile(path, target, info.Mode().Perm())
	})
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// rewriteManifestName replaces the manifest's declared name with newName.
// The substitution is scoped to the quoted name field so an incidental
// occurrence of the template name elsewhere in the file is never touched,
// and it must match exactly once.
func rewriteManifestName(path, oldName, newName string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	needle := fmt.Sprintf("%q: %q", "name", oldName)
	if n := strings.Count(string(data), needle); n != 1 {
		return fmt.Errorf("expected exactly one %s field, found %d", needle, n)
	}
	replacement := fmt.Sprintf("%q: %q", "name", newName)
	rewritten := strings.Replace(string(data), needle, replacement, 1)
	return os.WriteFile(path, []byte(rewritten), 0644)
}
