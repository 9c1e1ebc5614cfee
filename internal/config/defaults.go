package config

// Default configuration values.
const (
	DefaultFolder          = "."
	DefaultTimeoutSeconds  = 120
	DefaultStateBackend    = "json"
	DefaultReportDirectory = "reports"
	StateEnvVar            = "CODEDRILLS_STATE"
)

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	applyWorkspaceDefaults(cfg)
	applyRunnerDefaults(cfg)
	applyStateDefaults(cfg)
	applyReportDefaults(cfg)
	if cfg.Editor == nil {
		cfg.Editor = &EditorConfig{}
	}
}

func applyWorkspaceDefaults(cfg *Config) {
	if cfg.Workspace == nil {
		cfg.Workspace = &WorkspaceConfig{}
	}
	if len(cfg.Workspace.Folders) == 0 {
		cfg.Workspace.Folders = []string{DefaultFolder}
	}
}

func applyRunnerDefaults(cfg *Config) {
	if cfg.Runner == nil {
		cfg.Runner = &RunnerConfig{}
	}
	if cfg.Runner.TimeoutSeconds == 0 {
		cfg.Runner.TimeoutSeconds = DefaultTimeoutSeconds
	}
}

func applyStateDefaults(cfg *Config) {
	if cfg.State == nil {
		cfg.State = &StateConfig{}
	}
	if cfg.State.Backend == "" {
		cfg.State.Backend = DefaultStateBackend
	}
}

func applyReportDefaults(cfg *Config) {
	if cfg.Report == nil {
		cfg.Report = &ReportConfig{}
	}
	if cfg.Report.Directory == "" {
		cfg.Report.Directory = DefaultReportDirectory
	}
}
