/*
Package ports defines the driven ports (interfaces) for the hostprep provisioner.

These interfaces decouple the provisioning steps from the host they run on,
allowing the provisioner to be exercised with fakes in tests and to store its
reports in various backends.

# Key Interfaces

  - CommandRunner: Executes an external command (package manager, pip, arecord).
  - PathLookup: Resolves a command name on the search path.
  - ReportStore: Persists and loads run Reports.
  - DistributedLocker: Provides a lock so two runs cannot provision the same host at once.
  - DeviceLister: Enumerates audio input devices natively.
*/
package ports
