package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// registerHandler processes the /register command: interests followed by an
// optional quoted description, e.g.
//
//	/register gaming vr "I enjoy fast-paced shooter games"
//
// Registration fully replaces the profile, then immediately looks for peer
// matches among the other registered users.
type registerHandler struct {
	deps HandlerDeps
}

func (h registerHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) error {
	log := h.deps.Logger.With("handler", "register")
	chatID := update.Message.Chat.ID
	username := senderUsername(update.Message.From)

	args := commandArgs(update.Message.Text)
	if len(args) == 0 {
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.RegisterUsage)
		return nil
	}

	interests, description := parseRegisterArgs(args)
	if len(interests) == 0 {
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.ProvideInterest)
		return nil
	}

	profile, err := h.deps.Users.Register(ctx, username, interests, description)
	if err != nil {
		return fmt.Errorf("failed to register %q: %w", username, err)
	}

	matches, err := h.deps.Matches.FindMatches(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to find matches for %q: %w", username, err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Registered interests: %s", strings.Join(profile.InterestList(), ", ")))
	if profile.Description != "" {
		sb.WriteString(fmt.Sprintf("\nDescription: %s", profile.Description))
	}
	sb.WriteString("\n")
	if len(matches) > 0 {
		sb.WriteString(fmt.Sprintf("Matched users: %s", strings.Join(matches, ", ")))
	} else {
		sb.WriteString(h.deps.Config.Messages.NoMatches)
	}

	sendText(ctx, b, log, chatID, sb.String())
	return nil
}

// parseRegisterArgs splits the command arguments into interests and an
// optional quoted description. Everything before the first token that opens
// with a double quote is an interest; the quoted remainder (which may span
// several tokens) is the description.
func parseRegisterArgs(args []string) (interests []string, description string) {
	for i, arg := range args {
		if !strings.HasPrefix(arg, `"`) {
			continue
		}

		interests = args[:i]
		if strings.HasSuffix(arg, `"`) && len(arg) >= 2 {
			description = strings.Trim(arg, `"`)
		} else {
			joined := strings.Join(args[i:], " ")
			description = strings.TrimSuffix(strings.TrimPrefix(joined, `"`), `"`)
		}
		return interests, description
	}

	return args, ""
}
