package config

import "github.com/spf13/viper"

// Default values for optional configuration parameters.
const (
	DefaultLogLevel = "info"

	DefaultGeminiModel      = "gemini-2.0-flash"
	DefaultGeminiTemp       = float32(1.0)
	DefaultGeminiRetries    = 2
	DefaultGeminiRetryDelay = 5 // seconds

	DefaultDBPath           = "minglebot.db"
	DefaultLogRetentionDays = 30

	DefaultRateLimit        = 30
	DefaultRateLimitWindowS = 60
)

// setDefaults registers default values on the given viper instance. Keys
// without a default are still overridable via environment variables because
// registering them makes the keys known to viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", false)

	v.SetDefault("telegram.token", "")

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", DefaultGeminiModel)
	v.SetDefault("gemini.temperature", DefaultGeminiTemp)
	v.SetDefault("gemini.system_instruction", "")
	v.SetDefault("gemini.max_retries", DefaultGeminiRetries)
	v.SetDefault("gemini.retry_delay_seconds", DefaultGeminiRetryDelay)

	v.SetDefault("database.path", DefaultDBPath)
	v.SetDefault("database.log_retention_days", DefaultLogRetentionDays)

	v.SetDefault("rate_limit.limit", DefaultRateLimit)
	v.SetDefault("rate_limit.window_seconds", DefaultRateLimitWindowS)
	v.SetDefault("rate_limit.fail_open", false)

	v.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.sql_maintenance.schedule", "0 0 4 * * *")
	v.SetDefault("scheduler.tasks.log_retention.enabled", true)
	v.SetDefault("scheduler.tasks.log_retention.schedule", "0 30 4 * * *")

	v.SetDefault("messages.welcome", "Hi! I recommend events and introduce you to people who share your interests. Use /help to see what I can do.")
	v.SetDefault("messages.help", "Commands: /help, /hello, /add, /register, /events, /more_events\n"+
		`Example: /register gaming vr "I enjoy fast-paced shooter games"`)
	v.SetDefault("messages.rate_limited", "Rate limit exceeded. Try again in a minute.")
	v.SetDefault("messages.general_error", "An error occurred. Please try again later.")
	v.SetDefault("messages.register_first", "Please register your interests first with /register")
	v.SetDefault("messages.register_usage", `Usage: /register <interests> ["description"] (e.g., /register gaming vr "I enjoy FPS games")`)
	v.SetDefault("messages.provide_interest", "Please provide at least one interest.")
	v.SetDefault("messages.add_usage", "Usage: /add <keyword>")
	v.SetDefault("messages.provide_message", "Please provide a message with your command.")
	v.SetDefault("messages.no_events", "Sorry, I couldn't generate event recommendations right now.")
	v.SetDefault("messages.no_more_events", "Sorry, I couldn't generate more event recommendations right now.")
	v.SetDefault("messages.no_matches", "No matches found yet. Invite friends to join!")
}
