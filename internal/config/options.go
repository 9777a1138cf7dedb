package config

const defaultBaseURL = "http://127.0.0.1:8000/api/v2/"

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
// This is the single source of truth for default values and generator output.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; history DB is data_dir/aicode.db"},

		{Key: "service.base_url", Default: defaultBaseURL, Comment: "Base URL of the analysis service; requests go to <base_url>/aicode/"},
		{Key: "service.timeout", Default: "60s", Comment: "Per-request timeout (Go duration, 0 disables)"},

		{Key: "auth.provider", Default: "config", Comment: "Where the service token lives: config | keyring"},
		{Key: "auth.token", Default: "", Comment: "Bearer token sent to the service when auth.provider = config"},

		{Key: "history.enabled", Default: true, Comment: "Store every query and result in the local history DB"},
		{Key: "history.page_size", Default: 50, Comment: "Default number of rows for history list"},

		{Key: "output.mode", Default: "plain", Comment: "Default output for ask/history show: plain | pretty | json"},
		{Key: "pretty.style", Default: "dracula", Comment: "Glamour style used for answers in pretty mode"},
		{Key: "pretty.word_wrap", Default: 80, Comment: "Wrap width for pretty output (0 disables)"},

		{Key: "tui.copied_timeout", Default: "2s", Comment: "How long the chat view shows the copied indicator"},
		{Key: "log.file", Default: "", Comment: "Log file for the chat TUI; empty means data_dir/aicode.log"},
	}
}
