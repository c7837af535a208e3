package config

// this holds the resolved configuration values from CLI
var (
	APIURL        string // base URL of the timing/telemetry API
	CacheDB       string // path of the sqlite response cache ("" disables it)
	LogLevel      string // zap log level
	Year          int    // season year
	Event         string // grand-prix name, matched by the provider
	Session       string // session kind (Race, Qualifying, FP1, FP2, FP3)
	Description   string // optional free-text block at the top of the report
	OutputDir     string // directory the report file is written to
	WithTelemetry bool   // fetch per-lap telemetry for the report
	Addr          string // dashboard listen address
)
