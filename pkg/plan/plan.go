package plan

import (
	"fmt"
	"time"
)

// Plan is the declarative description of a provisioning run.
type Plan struct {
	Name string `yaml:"name" json:"name" mapstructure:"name"`
	// CommandTimeout bounds each external command (Go duration syntax). Empty means no limit.
	CommandTimeout string `yaml:"command_timeout,omitempty" json:"command_timeout,omitempty" mapstructure:"command_timeout"`

	Platform       PlatformSpec    `yaml:"platform" json:"platform" mapstructure:"platform"`
	Interpreter    InterpreterSpec `yaml:"interpreter" json:"interpreter" mapstructure:"interpreter"`
	SystemPackages PackageSpec     `yaml:"system_packages" json:"system_packages" mapstructure:"system_packages"`
	Environment    EnvironmentSpec `yaml:"environment" json:"environment" mapstructure:"environment"`
	Dependencies   DependencySpec  `yaml:"dependencies" json:"dependencies" mapstructure:"dependencies"`
	Audit          AuditSpec       `yaml:"audit" json:"audit" mapstructure:"audit"`
	Devices        DeviceSpec      `yaml:"devices" json:"devices" mapstructure:"devices"`
}

// PlatformSpec says which board the host is expected to be.
type PlatformSpec struct {
	Vendor     string   `yaml:"vendor" json:"vendor" mapstructure:"vendor"`
	ModelPaths []string `yaml:"model_paths" json:"model_paths" mapstructure:"model_paths"`
}

// InterpreterSpec names the interpreter that must be on PATH.
type InterpreterSpec struct {
	Command string `yaml:"command" json:"command" mapstructure:"command"`
}

// PackageSpec drives the OS package manager.
type PackageSpec struct {
	Manager     string   `yaml:"manager" json:"manager" mapstructure:"manager"`
	Sudo        bool     `yaml:"sudo" json:"sudo" mapstructure:"sudo"`
	Update      bool     `yaml:"update" json:"update" mapstructure:"update"`
	UpdateArgs  []string `yaml:"update_args" json:"update_args" mapstructure:"update_args"`
	InstallArgs []string `yaml:"install_args" json:"install_args" mapstructure:"install_args"`
	Packages    []string `yaml:"packages" json:"packages" mapstructure:"packages"`
}

// EnvironmentSpec describes the isolated Python environment.
type EnvironmentSpec struct {
	// Path is relative to the working directory.
	Path               string `yaml:"path" json:"path" mapstructure:"path"`
	SystemSitePackages bool   `yaml:"system_site_packages" json:"system_site_packages" mapstructure:"system_site_packages"`
}

// DependencySpec describes the Python dependency manifest.
type DependencySpec struct {
	Manifest         string `yaml:"manifest" json:"manifest" mapstructure:"manifest"`
	UpgradeInstaller bool   `yaml:"upgrade_installer" json:"upgrade_installer" mapstructure:"upgrade_installer"`
}

// Sentinel is a placeholder value that means a credential was never filled in.
type Sentinel struct {
	Credential string `yaml:"credential" json:"credential" mapstructure:"credential"`
	Value      string `yaml:"value" json:"value" mapstructure:"value"`
}

// AuditSpec lists what the configuration audit looks for.
type AuditSpec struct {
	ConfigFile string     `yaml:"config_file" json:"config_file" mapstructure:"config_file"`
	Sentinels  []Sentinel `yaml:"sentinels" json:"sentinels" mapstructure:"sentinels"`
	// EnvFile is optional; when it exists every EnvKeys entry must be set to a real value.
	EnvFile string   `yaml:"env_file,omitempty" json:"env_file,omitempty" mapstructure:"env_file"`
	EnvKeys []string `yaml:"env_keys,omitempty" json:"env_keys,omitempty" mapstructure:"env_keys"`
}

// DeviceSpec names the audio-device listing utility.
type DeviceSpec struct {
	Command string   `yaml:"command" json:"command" mapstructure:"command"`
	Args    []string `yaml:"args" json:"args" mapstructure:"args"`
}

// Timeout parses CommandTimeout. It returns zero when unset.
func (p *Plan) Timeout() (time.Duration, error) {
	if p.CommandTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(p.CommandTimeout)
	if err != nil {
		return 0, fmt.Errorf("command_timeout: %w", err)
	}
	return d, nil
}

// InstallCommand returns the package manager invocation, with sudo when requested.
func (s PackageSpec) InstallCommand() (string, []string) {
	args := append(append([]string{}, s.InstallArgs...), s.Packages...)
	return s.wrap(args)
}

// UpdateCommand returns the package index refresh invocation.
func (s PackageSpec) UpdateCommand() (string, []string) {
	return s.wrap(append([]string{}, s.UpdateArgs...))
}

func (s PackageSpec) wrap(args []string) (string, []string) {
	if s.Sudo {
		return "sudo", append([]string{s.Manager}, args...)
	}
	return s.Manager, args
}
