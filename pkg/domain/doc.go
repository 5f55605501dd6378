/*
Package domain contains the core domain models for the hostprep provisioner.

It defines the vocabulary shared by the provisioner, the adapters and the CLI:
the ordered provisioning steps, the findings they produce, and the Report that
summarizes a run. This package is kept pure and free of external dependencies
like I/O or persistence.

# Key Entities

  - StepID: Identifies one of the fixed provisioning steps (platform, interpreter, ...).
  - Finding: A single operator-facing message with a Severity.
  - StepResult: The Outcome of one step, with its findings and captured output.
  - Report: The ordered results of a run plus its overall Status and exit code.
*/
package domain
