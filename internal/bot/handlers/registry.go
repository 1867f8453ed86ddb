package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents a command handler with its registration
// parameters.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	MatchType   tgbot.MatchType
}

// RegisterAllCommands initializes and returns a map of all available bot
// commands, each wrapped by the request gate.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	command := func(pattern string, handler tgbot.HandlerFunc) RegisteredHandler {
		return RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     pattern,
			Handler:     handler,
			MatchType:   tgbot.MatchTypeCommandStartOnly,
		}
	}

	handlers["/start"] = command("start", Gated(deps, "start", startHandler{deps}.Handle))
	handlers["/help"] = command("help", Gated(deps, "help", helpHandler{deps}.Handle))
	handlers["/hello"] = command("hello", Gated(deps, "hello", helloHandler{deps}.Handle))
	handlers["/register"] = command("register", Gated(deps, "register", registerHandler{deps}.Handle))
	handlers["/add"] = command("add", Gated(deps, "add", addHandler{deps}.Handle))
	handlers["/events"] = command("events", Gated(deps, "events", eventsHandler{deps: deps}.Handle))
	handlers["/more_events"] = command("more_events", Gated(deps, "more_events", eventsHandler{deps: deps, more: true}.Handle))
	handlers["/openai"] = command("openai", Gated(deps, "openai", openaiHandler{deps}.Handle))

	return handlers
}

// NewDefaultHandler returns the catch-all handler for plain text messages,
// which passes the text through to the completion backend. It is gated like
// every command, under the "message" name.
func NewDefaultHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return Gated(deps, "message", messageHandler{deps}.Handle)
}
