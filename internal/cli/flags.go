package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	DBPath  string `long:"db-path" description:"Override SQLite database path"`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// StatusCommand — show database statistics and configuration summary.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// ImportCommand — import a JSONL event batch file into the store.
type ImportCommand struct {
	File      string `long:"file" description:"Path to JSONL batch file (required)"`
	SessionID string `long:"session" description:"Assign a session id to events that lack one"`
	DryRun    bool   `long:"dry-run" description:"Decode and report without writing"`

	globals *GlobalFlags
	version string
}

// SessionsCommand — replay stored events through the boundary detector.
type SessionsCommand struct {
	Since  string `long:"since" description:"Only events newer than duration (e.g., 7d, 24h)" default:"30d"`
	Until  string `long:"until" description:"Only events older than duration"`
	Record bool   `long:"record" description:"Persist detected sessions to the database"`
	Limit  int    `long:"limit" description:"Maximum sessions to print" default:"50"`

	globals *GlobalFlags
	version string
}

// AnalyzeCommand — run the analytics engine over stored events.
type AnalyzeCommand struct {
	Since     string `long:"since" description:"Only events newer than duration (e.g., 7d, 24h)" default:"7d"`
	Until     string `long:"until" description:"Only events older than duration"`
	SessionID string `long:"session" description:"Restrict to one session id"`
	Metrics   string `long:"metrics" description:"Comma-separated sections: time,productivity,patterns,domains,activity" default:""`

	globals *GlobalFlags
	version string
}

// PruneCommand — apply retention pruning to remove old events.
type PruneCommand struct {
	OlderThan string `long:"older-than" description:"Override retention period (e.g., 90d)"`
	DryRun    bool   `long:"dry-run" description:"Show what would be pruned without deleting"`

	globals *GlobalFlags
	version string
}

// PurgeCommand — delete ALL SessionLens data with safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
}
