package websocket

import (
	"errors"
	"fmt"
	"strings"

	"roomchat/internal/app/command"
	"roomchat/internal/app/user"
	"roomchat/internal/apperrors"
	"roomchat/internal/metrics"
)

// dispatch routes one raw inbound line: slash-commands go through the
// command parser, everything else through the moderation engine and into
// the store. Runs on the client's read goroutine; everything it touches is
// either channel-based or internally locked.
func (h *Hub) dispatch(c *Client, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	u := h.registry.Get(c.connID)
	if u == nil {
		c.sendError("you are not registered in this room")
		return
	}

	if strings.HasPrefix(line, command.Prefix) {
		h.dispatchCommand(c, u, command.Parse(line))
		return
	}

	if u.Banned {
		c.sendError("you are banned and cannot send messages")
		return
	}
	if u.Muted {
		c.sendError("you are muted and cannot send messages")
		return
	}

	blocked := false
	for _, action := range h.engine.Evaluate(line, u.Username) {
		metrics.ModerationActions.WithLabelValues(action).Inc()
		h.logger.Infow("Moderation action triggered",
			"action", action,
			"username", u.Username,
			"room", u.Room,
		)
		switch action {
		case "delete":
			blocked = true
			c.sendWarning("your message was blocked by a moderation rule")
		case "mute":
			h.registry.Mute(u.Username)
			c.sendWarning("you have been muted by a moderation rule")
			h.RefreshRoom(u.Room)
		case "ban":
			blocked = true
			h.registry.Ban(u.Username)
			h.RefreshRoom(u.Room)
			h.Kick(u.Username)
		case "warn":
			c.sendWarning("your message violates the room rules")
		case "flag":
			h.BroadcastToRoom(u.Room, Frame{Event: "warning", Data: fmt.Sprintf(
				"a message from %s was flagged for review", u.Username)})
		}
	}
	if blocked {
		return
	}

	if _, err := h.messageSvc.Create(u.Username, line, u.Room, ""); err != nil {
		c.sendError(humanError(err))
	}
}

func (h *Hub) dispatchCommand(c *Client, u *user.User, cmd command.Command) {
	if !command.Validate(cmd) {
		c.sendError("unrecognized or malformed command: " + cmd.Raw)
		return
	}

	switch cmd.Type {
	case command.TypeEdit:
		h.handleEdit(c, u, cmd.Args[0], strings.Join(cmd.Args[1:], " "))
	case command.TypeDelete:
		h.handleDelete(c, u, cmd.Args[0])
	case command.TypeReply:
		h.handleReply(c, u, cmd.Args[0], strings.Join(cmd.Args[1:], " "))
	case command.TypeMute:
		h.handleMute(c, u, cmd.Args[0])
	case command.TypeBan:
		h.handleBan(c, u, cmd.Args[0])
	}
}

func (h *Hub) handleEdit(c *Client, u *user.User, id, text string) {
	msg, err := h.messageSvc.Edit(id, text, u.Username)
	if err != nil {
		c.sendError(humanError(err))
		return
	}
	if msg == nil {
		c.sendError("you can only edit your own messages")
	}
}

func (h *Hub) handleDelete(c *Client, u *user.User, id string) {
	ok, err := h.messageSvc.Delete(id, u.Username)
	if err != nil {
		c.sendError(humanError(err))
		return
	}
	if !ok {
		c.sendError("you can only delete your own messages")
	}
}

func (h *Hub) handleReply(c *Client, u *user.User, parentID, text string) {
	if u.Banned || u.Muted {
		c.sendError("you cannot send messages right now")
		return
	}
	if _, err := h.messageSvc.Create(u.Username, text, u.Room, parentID); err != nil {
		c.sendError(humanError(err))
	}
}

func (h *Hub) handleMute(c *Client, u *user.User, target string) {
	if !u.CanModerate() {
		c.sendError("only moderators can mute users")
		return
	}
	if !h.registry.Mute(target) {
		c.sendError("user not found: " + target)
		return
	}
	h.RefreshRoom(u.Room)
	h.BroadcastToRoom(u.Room, Frame{Event: "warning", Data: fmt.Sprintf(
		"%s was muted by %s", target, u.Username)})
}

func (h *Hub) handleBan(c *Client, u *user.User, target string) {
	if !u.CanModerate() {
		c.sendError("only moderators can ban users")
		return
	}
	if !h.registry.Ban(target) {
		c.sendError("user not found: " + target)
		return
	}
	h.RefreshRoom(u.Room)
	h.BroadcastToRoom(u.Room, Frame{Event: "warning", Data: fmt.Sprintf(
		"%s was banned by %s", target, u.Username)})
	h.Kick(target)
}

// humanError turns a core error into a string safe to show the sender.
func humanError(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrInvalidArgument):
		return "invalid input: " + err.Error()
	case errors.Is(err, apperrors.ErrParentNotFound):
		return "the message you are replying to does not exist"
	case errors.Is(err, apperrors.ErrNotFound):
		return "message not found"
	case errors.Is(err, apperrors.ErrInvalidState):
		return "that message was deleted and cannot be changed"
	default:
		return "something went wrong handling your message"
	}
}
