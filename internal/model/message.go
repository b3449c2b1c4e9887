package model

import (
	"strings"
	"time"
)

// OutboundMessage is a transport-independent view of one message event.
// Only messages with FromMe set are tallied. ChatAltID is the phone-number
// id of a DM whose ChatID is a @lid id.
type OutboundMessage struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	ChatAltID string    `json:"chat_alt_id,omitempty"`
	IsGroup   bool      `json:"is_group"`
	FromMe    bool      `json:"from_me"`
	SenderID  string    `json:"sender_id"`
	PushName  string    `json:"push_name,omitempty"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

// Contact is the directory entry for a chat. Number is the raw identifier
// supplied by the messaging service.
type Contact struct {
	ID       string `json:"id"`
	PushName string `json:"push_name,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Number   string `json:"number"`
}

// DisplayName returns the push name, then the saved name, then the raw number.
func (c *Contact) DisplayName() string {
	if c == nil {
		return ""
	}
	if name := strings.TrimSpace(c.PushName); name != "" {
		return name
	}
	if name := strings.TrimSpace(c.FullName); name != "" {
		return name
	}
	return c.Number
}
