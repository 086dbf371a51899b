package models

import "strings"

// CommandType enumerates the WhatsApp commands a farmer can send.
type CommandType string

const (
	CommandReminders  CommandType = "reminders"
	CommandRead       CommandType = "read"
	CommandClear      CommandType = "clear"
	CommandSummary    CommandType = "summary"
	CommandFeed       CommandType = "feed"
	CommandProduction CommandType = "production"
	CommandHelp       CommandType = "help"
	CommandUnknown    CommandType = "unknown"
)

var commandAliases = map[string]CommandType{
	"reminders":  CommandReminders,
	"alerts":     CommandReminders,
	"read":       CommandRead,
	"clear":      CommandClear,
	"summary":    CommandSummary,
	"feed":       CommandFeed,
	"production": CommandProduction,
	"prod":       CommandProduction,
	"help":       CommandHelp,
}

// Command is a parsed instruction extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command from free-form text. Arguments keep their
// original case because they may carry reminder ids or animal type names.
func ParseCommand(message string) Command {
	tokens := strings.Fields(strings.TrimSpace(message))
	if len(tokens) == 0 {
		return Command{Type: CommandUnknown, Raw: message}
	}

	head := strings.ToLower(strings.TrimPrefix(tokens[0], "/"))
	cmd := Command{Type: CommandUnknown, Raw: message}
	if t, ok := commandAliases[head]; ok {
		cmd.Type = t
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}
	return cmd
}
