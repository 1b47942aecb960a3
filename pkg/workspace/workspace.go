package workspace

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Environment file keys written into each member.
const (
	envKeyAPIBaseURL  = "VITE_API_BASE_URL"
	envKeyClientID    = "VITE_CLIENT_ID"
	envKeyPort        = "VITE_PORT"
	envKeyDisplayName = "VITE_CLIENT_NAME"
)

// EnvFileName is the per-member environment file.
const EnvFileName = ".env"

// ManifestFileName is the per-member package manifest.
const ManifestFileName = "package.json"

// Root configuration files every valid workspace must carry.
var rootManifests = []string{"package.json", "pnpm-workspace.yaml"}

// Member is one instantiated application instance. Members are never
// mutated after creation; regeneration means creating a new one.
type Member struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	ClientID    string `json:"client_id"`
	Port        int    `json:"port"`
}

// Workspace is an opened, validated on-disk workspace.
type Workspace struct {
	Root   string
	Config Config

	logger zerolog.Logger
}

// Open loads the workspace configuration at root and validates the
// workspace structure. Operations must not run against a workspace that
// fails to open.
func Open(root string, logger zerolog.Logger) (*Workspace, error) {
	cfg, err := LoadConfig(filepath.Join(root, ConfigFileName))
	if err != nil {
		return nil, err
	}
	ws := &Workspace{
		Root:   root,
		Config: cfg,
		logger: logger.With().Str("component", "workspace").Logger(),
	}
	if err := ws.Validate(); err != nil {
		return nil, err
	}
	return ws, nil
}

// MembersDir returns the absolute path of the members directory.
func (w *Workspace) MembersDir() string {
	return filepath.Join(w.Root, w.Config.MembersDir)
}

// MemberDir returns the absolute path of the named member's directory.
func (w *Workspace) MemberDir(name string) string {
	return filepath.Join(w.MembersDir(), name)
}

// TemplateDir returns the absolute path of the canonical template member.
func (w *Workspace) TemplateDir() string {
	return w.MemberDir(w.Config.Template)
}

// Validate checks the workspace invariants: root configuration files,
// every declared shared package, and the canonical template member must
// all exist on disk.
func (w *Workspace) Validate() error {
	for _, name := range rootManifests {
		path := filepath.Join(w.Root, name)
		if _, err := os.Stat(path); err != nil {
			return newError(CodeInvalidWorkspace, "missing root configuration file", path, err)
		}
	}
	for _, pkg := range w.Config.SharedPackages {
		path := filepath.Join(w.Root, filepath.FromSlash(pkg))
		info, err := os.Stat(path)
		if err != nil {
			return newError(CodeInvalidWorkspace, "missing shared package", path, err)
		}
		if !info.IsDir() {
			return newError(CodeInvalidWorkspace, "shared package is not a directory", path, nil)
		}
	}
	if _, err := os.Stat(w.TemplateDir()); err != nil {
		return newError(CodeTemplateMissing, "canonical template member not found", w.TemplateDir(), err)
	}
	return nil
}

// Members scans the members directory and returns every named member in
// directory-name order. The canonical template is excluded, as are
// directories that do not carry the member prefix (dotfiles, in-flight
// temp clones). Each member's identity is read back from its environment
// file.
func (w *Workspace) Members() ([]Member, error) {
	entries, err := os.ReadDir(w.MembersDir())
	if err != nil {
		return nil, newError(CodeInvalidWorkspace, "failed to scan members directory", w.MembersDir(), err)
	}

	var members []Member
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || name == w.Config.Template {
			continue
		}
		if !strings.HasPrefix(name, w.Config.MemberPrefix) {
			continue
		}
		member, err := w.readMember(name)
		if err != nil {
			w.logger.Warn().Err(err).Str("member", name).Msg("Skipping unreadable member")
			continue
		}
		members = append(members, member)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members, nil
}

// CheckInvariants verifies the workspace-wide member invariants derived
// by scanning: every member's manifest identity matches its directory
// name, and no two members share a port. Name uniqueness itself is
// guaranteed by the filesystem (one directory per member).
func (w *Workspace) CheckInvariants() error {
	members, err := w.Members()
	if err != nil {
		return err
	}
	byPort := make(map[int]string, len(members))
	for _, m := range members {
		if m.ClientID != m.Name {
			return newError(CodeInvalidWorkspace,
				fmt.Sprintf("member %q declares client id %q", m.Name, m.ClientID),
				w.MemberDir(m.Name), nil)
		}
		if other, ok := byPort[m.Port]; ok {
			return newError(CodeInvalidWorkspace,
				fmt.Sprintf("members %q and %q share port %d", other, m.Name, m.Port),
				w.MembersDir(), nil)
		}
		byPort[m.Port] = m.Name
	}
	return nil
}

// readMember reconstructs a Member from its on-disk environment file.
func (w *Workspace) readMember(name string) (Member, error) {
	envPath := filepath.Join(w.MemberDir(name), EnvFileName)
	env, err := parseEnvFile(envPath)
	if err != nil {
		return Member{}, err
	}
	port, err := strconv.Atoi(env[envKeyPort])
	if err != nil {
		return Member{}, fmt.Errorf("invalid %s in %s: %w", envKeyPort, envPath, err)
	}
	return Member{
		Name:        name,
		DisplayName: env[envKeyDisplayName],
		ClientID:    env[envKeyClientID],
		Port:        port,
	}, nil
}

// checkMemberName enforces the member naming rules: lowercase DNS-label
// characters, the configured member prefix with a non-empty remainder,
// and no collision with the canonical template's name.
func (w *Workspace) checkMemberName(name string) error {
	req := struct {
		Name string `validate:"required,max=64,membername"`
	}{Name: name}
	if err := validate.Struct(req); err != nil {
		return newError(CodeInvalidName, fmt.Sprintf("invalid member name %q", name), "", err)
	}
	if !strings.HasPrefix(name, w.Config.MemberPrefix) || name == w.Config.MemberPrefix {
		return newError(CodeInvalidName,
			fmt.Sprintf("member name %q must start with prefix %q", name, w.Config.MemberPrefix), "", nil)
	}
	if name == w.Config.Template {
		return newError(CodeInvalidName,
			fmt.Sprintf("member name %q is reserved for the canonical template", name), "", nil)
	}
	return nil
}

// DisplayName derives the human label from a member name by stripping
// the member prefix and capitalizing the remainder.
func DisplayName(name, prefix string) string {
	rest := strings.TrimPrefix(name, prefix)
	if rest == "" {
		return name
	}
	return strings.ToUpper(rest[:1]) + rest[1:]
}

// parseEnvFile reads a KEY=VALUE environment file. Blank lines and
// #-comments are ignored; later keys win.
func parseEnvFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	env := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		env[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return env, scanner.Err()
}
