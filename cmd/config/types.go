package config

// ContextConfig holds context-related flags. The context is attached to
// every result line.
type ContextConfig struct {
	JSON string
	KV   []string
	File string
}

// SignerConfig holds signing endpoint flags
type SignerConfig struct {
	URL       string
	Timeout   string
	Token     string
	TokenFile string

	// Alternative configuration methods
	Config     string   // JSON string configuration
	ConfigKV   []string // Key-value pairs
	ConfigFile string   // Path to JSON config file
}

// UploadConfig holds upload-related flags
type UploadConfig struct {
	Provider   string
	Config     string
	ConfigKV   []string
	ConfigFile string
}

// CommonFlags holds commonly used flags across commands
type CommonFlags struct {
	Verbose  bool
	DryRun   bool
	LogLevel string
	LogFile  string
}

// ControlFlags holds the upload control flags
type ControlFlags struct {
	Concurrency  int
	Retries      int
	RetryDelay   string
	MaxFileSize  string // human readable, e.g. 10MB
	MaxFiles     int
	Accept       []string
	ProgressStep int
	Timeout      string // whole run
}

// WebhookConfig holds webhook-related flags
type WebhookConfig struct {
	// Direct configuration flags
	URL        string
	Method     string // HTTP method (GET, POST, PUT, PATCH, DELETE)
	AuthType   string
	AuthToken  string
	Timeout    string
	Retries    int
	RetryDelay string
	ErrorsOnly bool

	// Alternative configuration methods
	Config     string   // JSON string configuration
	ConfigKV   []string // Key-value pairs
	ConfigFile string   // Path to JSON config file
}
