/*
Package provision runs a plan's fixed checklist against one host.

The Provisioner executes the steps listed in domain.Steps in order:

 1. Platform check: reads the device-tree model files.
 2. Interpreter check: the only fatal step. A missing interpreter stops the run before anything is installed.
 3. System packages: runs the OS package manager.
 4. Environment: removes and recreates the Python virtual environment.
 5. Dependencies: upgrades pip and installs the manifest into the environment.
 6. Configuration audit: see package audit.
 7. Devices: lists audio capture devices.

Failed commands are recorded on the step (ports.CommandResult is data, not an error).
Steps that need a failed step are skipped; every other step still runs.
Run only returns a Go error for the fatal prerequisite or cancellation.
*/
package provision
