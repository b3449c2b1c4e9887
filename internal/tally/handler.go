package tally

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sentlog/sentlog/internal/model"
)

// Handler consumes normalized message events and feeds the accumulator.
type Handler struct {
	acc   *Accumulator
	dir   Directory
	stamp StampFunc
}

// StampFunc renders a message instant as separate date and time strings for
// the console line.
type StampFunc func(t time.Time) (date, clock string)

func defaultStamp(t time.Time) (string, string) {
	return t.Format("2006-01-02"), t.Format("15:04:05")
}

func NewHandler(acc *Accumulator, dir Directory, stamp StampFunc) *Handler {
	if stamp == nil {
		stamp = defaultStamp
	}
	return &Handler{acc: acc, dir: dir, stamp: stamp}
}

// Handle records msg if it was sent by the account owner. Failures are logged
// and the event is dropped; the tally is only touched after the key resolved.
func (h *Handler) Handle(ctx context.Context, msg *model.OutboundMessage) {
	if msg == nil || !msg.FromMe {
		return
	}

	key, err := ResolveKey(ctx, h.dir, msg)
	if err != nil {
		log.Err(err).Str("chat", msg.ChatID).Str("id", msg.ID).Msg("failed to process message")
		return
	}

	if err := h.acc.Record(key, msg.Timestamp); err != nil {
		if errors.Is(err, ErrSealed) {
			log.Warn().Str("chat", key).Str("id", msg.ID).Msg("message arrived during export, not counted")
			return
		}
		log.Err(err).Str("chat", key).Msg("failed to record message")
		return
	}

	date, clock := h.stamp(msg.Timestamp)
	kind := "contact"
	if msg.IsGroup {
		kind = "group"
	}
	log.Info().
		Str("kind", kind).
		Str("chat", key).
		Str("body", msg.Body).
		Str("date", date).
		Str("time", clock).
		Msg("message sent")
}
