package plan

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/hostprep/pkg/domain"
)

// Validate checks that the plan can be executed.
// All problems are reported together, wrapped in domain.ErrInvalidPlan.
func Validate(p *Plan) error {
	var errs []error

	if strings.TrimSpace(p.Interpreter.Command) == "" {
		errs = append(errs, errors.New("interpreter.command is required"))
	}

	env := p.Environment.Path
	switch {
	case strings.TrimSpace(env) == "":
		errs = append(errs, errors.New("environment.path is required"))
	case filepath.IsAbs(env):
		errs = append(errs, fmt.Errorf("environment.path must be relative, got %q", env))
	case !filepath.IsLocal(env):
		errs = append(errs, fmt.Errorf("environment.path must stay inside the working directory, got %q", env))
	}

	if len(p.SystemPackages.Packages) > 0 && p.SystemPackages.Manager == "" {
		errs = append(errs, errors.New("system_packages.manager is required when packages are listed"))
	}

	if p.Dependencies.Manifest == "" {
		errs = append(errs, errors.New("dependencies.manifest is required"))
	}

	if p.Audit.ConfigFile == "" && len(p.Audit.Sentinels) > 0 {
		errs = append(errs, errors.New("audit.config_file is required when sentinels are listed"))
	}
	for i, s := range p.Audit.Sentinels {
		if s.Value == "" {
			errs = append(errs, fmt.Errorf("audit.sentinels[%d].value is required", i))
		}
	}

	if p.Devices.Command == "" {
		errs = append(errs, errors.New("devices.command is required"))
	}

	if _, err := p.Timeout(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidPlan, errors.Join(errs...))
}
