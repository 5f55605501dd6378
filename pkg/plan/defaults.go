package plan

// Default returns the built-in plan for the JARVIS voice assistant on a Raspberry Pi.
func Default() *Plan {
	return &Plan{
		Name: "jarvis",
		Platform: PlatformSpec{
			Vendor: "Raspberry Pi",
			ModelPaths: []string{
				"/proc/device-tree/model",
				"/sys/firmware/devicetree/base/model",
			},
		},
		Interpreter: InterpreterSpec{
			Command: "python3",
		},
		SystemPackages: PackageSpec{
			Manager:     "apt-get",
			Sudo:        true,
			Update:      true,
			UpdateArgs:  []string{"update"},
			InstallArgs: []string{"install", "-y"},
			Packages: []string{
				"python3-venv",
				"python3-dev",
				"libatlas-base-dev",
				"libopenblas-dev",
				"portaudio19-dev",
				"libportaudio2",
				"alsa-utils",
			},
		},
		Environment: EnvironmentSpec{
			Path:               "venv",
			SystemSitePackages: true,
		},
		Dependencies: DependencySpec{
			Manifest:         "requirements.txt",
			UpgradeInstaller: true,
		},
		Audit: AuditSpec{
			ConfigFile: "jarvis/config.py",
			Sentinels: []Sentinel{
				{Credential: "Deepgram API key", Value: "your_deepgram_api_key_here"},
				{Credential: "Groq API key", Value: "your_groq_api_key_here"},
				{Credential: "Porcupine access key", Value: "YOUR_PORCUPINE_ACCESS_KEY"},
			},
			EnvFile: ".env",
			EnvKeys: []string{"DEEPGRAM_API_KEY", "GROQ_API_KEY"},
		},
		Devices: DeviceSpec{
			Command: "arecord",
			Args:    []string{"-l"},
		},
	}
}
