package tally

import (
	"context"
	"strings"

	"github.com/sentlog/sentlog/internal/errors"
	"github.com/sentlog/sentlog/internal/model"
)

// Directory looks up display details for a chat. Implementations may hit
// the network; errors are treated as a failed resolution.
type Directory interface {
	GroupName(ctx context.Context, chatID string) (string, error)
	Contact(ctx context.Context, chatID string) (*model.Contact, error)
}

// ResolveKey returns the conversation key for msg: the group name for group
// chats, the contact display name otherwise, and the raw chat user id when
// neither yields a name.
func ResolveKey(ctx context.Context, dir Directory, msg *model.OutboundMessage) (string, error) {
	if msg.IsGroup {
		name, err := dir.GroupName(ctx, msg.ChatID)
		if err != nil {
			return "", errors.ResolveFailed(msg.ChatID, err)
		}
		if name = strings.TrimSpace(name); name != "" {
			return name, nil
		}
		return rawID(msg.ChatID), nil
	}

	// the phone-number id keeps LID and PN addressed chats in one row
	id := msg.ChatID
	if msg.ChatAltID != "" {
		id = msg.ChatAltID
	}
	contact, err := dir.Contact(ctx, id)
	if err != nil {
		return "", errors.ResolveFailed(id, err)
	}
	if name := contact.DisplayName(); name != "" {
		return name, nil
	}
	return rawID(id), nil
}

// rawID strips the server part of a chat id ("5511999@s.whatsapp.net" -> "5511999").
func rawID(chatID string) string {
	if i := strings.IndexByte(chatID, '@'); i > 0 {
		return chatID[:i]
	}
	return chatID
}
