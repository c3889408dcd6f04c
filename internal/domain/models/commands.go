package models

import "strings"

// CommandType enumerates supported chat command categories.
type CommandType string

const (
	CommandToday   CommandType = "today"
	CommandStatus  CommandType = "status"
	CommandDone    CommandType = "done"
	CommandUndo    CommandType = "undo"
	CommandHelp    CommandType = "help"
	CommandUnknown CommandType = "unknown"
)

// Command represents a parsed keeper instruction extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command instance from free-form text messages.
func ParseCommand(message string) Command {
	normalized := strings.TrimSpace(message)

	if normalized == "" {
		return Command{Type: CommandUnknown, Raw: message}
	}

	tokens := strings.Fields(normalized)
	cmd := Command{Raw: message}

	head := strings.ToLower(strings.TrimPrefix(tokens[0], "/"))
	switch head {
	case string(CommandToday), "tasks":
		cmd.Type = CommandToday
	case string(CommandStatus):
		cmd.Type = CommandStatus
	case string(CommandDone), "complete":
		cmd.Type = CommandDone
	case string(CommandUndo):
		cmd.Type = CommandUndo
	case string(CommandHelp), "start":
		cmd.Type = CommandHelp
	default:
		cmd.Type = CommandUnknown
	}

	// Task ids embed batch ids, so arguments keep their original case.
	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
