package workspace

import (
	"os"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the engine's workspace configuration file, written at
// the workspace root during build and re-read on every instantiation.
const ConfigFileName = "atelier.yaml"

// Config is the engine's view of a workspace: where members live, which
// member is the canonical template, and the defaults inherited by every
// instantiated member.
type Config struct {
	// WorkspaceID is a stable identity assigned at build time.
	WorkspaceID string `yaml:"workspace_id" validate:"required,uuid4"`

	// MembersDir is the directory holding one subdirectory per member,
	// relative to the workspace root.
	MembersDir string `yaml:"members_dir" validate:"required"`

	// Template is the canonical template member's directory name. It is
	// the clone source for every instantiation and is never counted as a
	// named member.
	Template string `yaml:"template" validate:"required"`

	// MemberPrefix is the naming prefix every named member must carry.
	// The display name is derived by stripping it.
	MemberPrefix string `yaml:"member_prefix" validate:"required"`

	// BasePort is the template's default dev-server port and the base of
	// the sequential port allocation.
	BasePort int `yaml:"base_port" validate:"required,gt=1023,lt=65536"`

	// APIBaseURL is inherited unchanged into every member's environment.
	APIBaseURL string `yaml:"api_base_url" validate:"required,url"`

	// SharedPackages are workspace-relative directories that must exist
	// for the workspace to be valid.
	SharedPackages []string `yaml:"shared_packages" validate:"required,min=1,dive,required"`
}

var memberNameRE = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Member names double as directory names and manifest identities, so
	// the character set is restricted to lowercase DNS-label style.
	if err := v.RegisterValidation("membername", func(fl validator.FieldLevel) bool {
		return memberNameRE.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// DefaultConfig returns the configuration written for a freshly built
// workspace, with a newly assigned workspace identity.
func DefaultConfig() Config {
	return Config{
		WorkspaceID:  uuid.NewString(),
		MembersDir:   "apps",
		Template:     "client-template",
		MemberPrefix: "client-",
		BasePort:     3000,
		APIBaseURL:   "http://localhost:4000",
		SharedPackages: []string{
			"packages/ui",
			"packages/state",
		},
	}
}

// LoadConfig reads and validates the workspace configuration at path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, newError(CodeInvalidWorkspace, "failed to read workspace config", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, newError(CodeInvalidWorkspace, "failed to parse workspace config", path, err)
	}
	if err := validate.Struct(cfg); err != nil {
		return cfg, newError(CodeInvalidWorkspace, "workspace config failed validation", path, err)
	}
	return cfg, nil
}

// SaveConfig validates and writes the workspace configuration to path.
func SaveConfig(path string, cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return newError(CodeInvalidWorkspace, "workspace config failed validation", path, err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return newError(CodeInvalidWorkspace, "failed to encode workspace config", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return newError(CodeBuildFailed, "failed to write workspace config", path, err)
	}
	return nil
}
