package whatsapp

import (
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"

	"github.com/sentlog/sentlog/internal/model"
)

// Normalize converts a whatsmeow message event. ok is false for events that
// are not user messages: reactions, edits, revokes and status updates.
func Normalize(evt *events.Message) (model.OutboundMessage, bool) {
	if evt == nil {
		return model.OutboundMessage{}, false
	}
	info := evt.Info
	if info.Chat.Server == types.BroadcastServer {
		return model.OutboundMessage{}, false
	}
	m := evt.Message
	if m.GetReactionMessage() != nil || m.GetProtocolMessage() != nil || evt.IsEdit {
		return model.OutboundMessage{}, false
	}

	return model.OutboundMessage{
		ID:        string(info.ID),
		ChatID:    info.Chat.ToNonAD().String(),
		ChatAltID: chatAlt(info.MessageSource),
		IsGroup:   info.IsGroup,
		FromMe:    info.IsFromMe,
		SenderID:  info.Sender.ToNonAD().String(),
		PushName:  info.PushName,
		Body:      Body(m),
		Timestamp: info.Timestamp,
	}, true
}

// Body returns the text of m: plain text, extended text, or a media caption.
func Body(m *waE2E.Message) string {
	switch {
	case m.GetConversation() != "":
		return m.GetConversation()
	case m.GetExtendedTextMessage() != nil:
		return m.GetExtendedTextMessage().GetText()
	case m.GetImageMessage() != nil:
		return m.GetImageMessage().GetCaption()
	case m.GetVideoMessage() != nil:
		return m.GetVideoMessage().GetCaption()
	case m.GetDocumentMessage() != nil:
		return m.GetDocumentMessage().GetCaption()
	}
	return ""
}

// chatAlt returns the phone-number JID of a DM addressed by LID. whatsmeow
// puts it in RecipientAlt for our own messages and SenderAlt otherwise.
func chatAlt(src types.MessageSource) string {
	if src.IsGroup || src.Chat.Server != types.HiddenUserServer {
		return ""
	}
	alt := src.SenderAlt
	if src.IsFromMe {
		alt = src.RecipientAlt
	}
	if alt.IsEmpty() || alt.Server != types.DefaultUserServer {
		return ""
	}
	return alt.ToNonAD().String()
}
