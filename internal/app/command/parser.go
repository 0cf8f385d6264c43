package command

import "strings"

// Type classifies a slash-command.
type Type string

const (
	TypeEdit    Type = "edit"
	TypeDelete  Type = "delete"
	TypeMute    Type = "mute"
	TypeBan     Type = "ban"
	TypeReply   Type = "reply"
	TypeUnknown Type = "unknown"
)

// Command is the parsed form of one input line. It is produced per
// invocation and never persisted; Raw keeps the original line for
// diagnostics.
type Command struct {
	Type Type     `json:"type"`
	Args []string `json:"args"`
	Raw  string   `json:"raw"`
}

const Prefix = "/"

// Parse tokenizes a raw input line into a Command. A line that does not
// start with the command prefix is returned as-is with type unknown and no
// arguments. An unrecognized keyword still yields the attempted arguments
// so callers can report what was typed.
func Parse(input string) Command {
	if !strings.HasPrefix(input, Prefix) {
		return Command{Type: TypeUnknown, Args: []string{}, Raw: input}
	}

	tokens := tokenize(input[len(Prefix):])
	if len(tokens) == 0 {
		return Command{Type: TypeUnknown, Args: []string{}, Raw: input}
	}

	keyword := strings.ToLower(tokens[0])
	args := tokens[1:]

	switch keyword {
	case "edit":
		return Command{Type: TypeEdit, Args: args, Raw: input}
	case "delete":
		return Command{Type: TypeDelete, Args: args, Raw: input}
	case "mute":
		return Command{Type: TypeMute, Args: args, Raw: input}
	case "ban":
		return Command{Type: TypeBan, Args: args, Raw: input}
	case "reply":
		return Command{Type: TypeReply, Args: args, Raw: input}
	default:
		return Command{Type: TypeUnknown, Args: args, Raw: input}
	}
}

// Validate performs the structural arity check only; it knows nothing about
// message ownership or roles.
func Validate(cmd Command) bool {
	switch cmd.Type {
	case TypeEdit, TypeReply:
		// id plus at least one word of text
		return len(cmd.Args) >= 2
	case TypeDelete, TypeMute, TypeBan:
		return len(cmd.Args) == 1
	default:
		return false
	}
}

// tokenize splits on runs of spaces and tabs. A token opening with a quote
// character consumes verbatim up to the matching quote; the quotes are
// stripped and no escape sequences are recognized. An unterminated quote
// consumes the rest of the line.
func tokenize(s string) []string {
	tokens := []string{}
	i := 0
	for i < len(s) {
		c := s[i]
		if c == ' ' || c == '\t' {
			i++
			continue
		}
		if c == '"' || c == '\'' {
			quote := c
			end := strings.IndexByte(s[i+1:], quote)
			if end < 0 {
				tokens = append(tokens, s[i+1:])
				break
			}
			tokens = append(tokens, s[i+1:i+1+end])
			i += end + 2
			continue
		}
		start := i
		for i < len(s) && s[i] != ' ' && s[i] != '\t' {
			i++
		}
		tokens = append(tokens, s[start:i])
	}
	return tokens
}
