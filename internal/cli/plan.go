package cli

import (
	"fmt"

	"github.com/aretw0/hostprep/pkg/plan"
)

// PrintPlan writes the effective plan (file, defaults and --set overrides) as YAML.
func PrintPlan(opts Options) error {
	logger, err := createLogger(opts)
	if err != nil {
		return err
	}
	p, err := loadPlan(opts, logger)
	if err != nil {
		return err
	}

	if opts.JSON {
		return writeJSON(opts.stdout(), p)
	}
	data, err := plan.Marshal(p)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(opts.stdout(), string(data))
	return err
}
