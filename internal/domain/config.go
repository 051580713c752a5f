package domain

// ConfigKey defines a configuration key with its metadata.
type ConfigKey struct {
	Name        string
	Default     string
	Description string
	Section     string
	Hidden      bool
}

// ConfigKeys defines all available configuration keys.
// Order determines the order written to a fresh config file.
var ConfigKeys = []ConfigKey{
	// Dispatch
	{
		Name:        "confirm_ttl",
		Default:     "30s",
		Description: "How long a pending confirmation stays valid",
		Section:     "Dispatch",
	},
	{
		Name:        "sweep_interval",
		Default:     "0s",
		Description: "Background sweep of expired confirmations (0 disables)",
		Section:     "Dispatch",
	},
	{
		Name:        "suggest_workers",
		Default:     "4",
		Description: "Concurrent suggestion computations",
		Section:     "Dispatch",
	},
	{
		Name:        "suggest_rate",
		Default:     "20",
		Description: "Suggestion requests per second allowed per actor",
		Section:     "Dispatch",
	},
	{
		Name:        "command_prefix",
		Default:     "/",
		Description: "Prefix shown in usage messages",
		Section:     "Dispatch",
	},
	// Console
	{
		Name:        "actors_path",
		Default:     "",
		Description: "YAML file listing console actors and their permissions",
		Section:     "Console",
	},
	{
		Name:        "color",
		Default:     "true",
		Description: "Enable colored output",
		Section:     "Console",
	},
	{
		Name:        "color_theme",
		Default:     "default",
		Description: "Color theme: default, mono or contrast, optionally with -dark or -light",
		Section:     "Console",
	},
	{
		Name:        "display_date",
		Default:     "Jan 02",
		Description: "Date format in audit listings: dd/mm/yyyy, mm/dd/yyyy, yyyy-mm-dd or a Go layout",
		Section:     "Console",
	},
	{
		Name:        "display_time",
		Default:     "24h",
		Description: "Clock format in audit listings: 12h or 24h",
		Section:     "Console",
	},
	{
		Name:        "pager",
		Default:     "",
		Description: "Pager for long output; empty uses $PAGER, \"cat\" disables",
		Section:     "Console",
	},
	// Storage
	{
		Name:        "db_path",
		Default:     "",
		Description: "SQLite audit database path",
		Section:     "Storage",
	},
	{
		Name:        "enable_audit",
		Default:     "true",
		Description: "Record every dispatch in the audit database",
		Section:     "Storage",
	},
	// Logging
	{
		Name:        "log_path",
		Default:     "",
		Description: "Log file path",
		Section:     "Logging",
	},
	{
		Name:        "log_level",
		Default:     "info",
		Description: "Minimum log level: debug, info, warn, error",
		Section:     "Logging",
	},
}

// VisibleConfigKeys returns the keys that are not hidden.
func VisibleConfigKeys() []ConfigKey {
	var keys []ConfigKey
	for _, k := range ConfigKeys {
		if !k.Hidden {
			keys = append(keys, k)
		}
	}
	return keys
}
