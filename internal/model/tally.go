package model

import "time"

// ConversationTally counts the messages sent to one conversation.
type ConversationTally struct {
	Name      string    `json:"name"`
	Count     int64     `json:"count"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

// DayTotals aggregates the whole run, not a calendar day.
type DayTotals struct {
	Count int64     `json:"count"`
	First time.Time `json:"first"`
	Last  time.Time `json:"last"`
}

// Empty reports whether no message has been recorded yet.
func (d DayTotals) Empty() bool {
	return d.Count == 0 || d.First.IsZero() || d.Last.IsZero()
}

// Tally holds per-conversation counters in first-seen order plus the totals.
type Tally struct {
	Conversations map[string]*ConversationTally `json:"conversations"`
	Order         []string                      `json:"order"`
	Totals        DayTotals                     `json:"totals"`
}

func NewTally() *Tally {
	return &Tally{Conversations: make(map[string]*ConversationTally)}
}

// Apply records one outbound message for key at the given instant.
func (t *Tally) Apply(key string, at time.Time) {
	if t.Conversations == nil {
		t.Conversations = make(map[string]*ConversationTally)
	}

	t.Totals.Count++
	if t.Totals.First.IsZero() || at.Before(t.Totals.First) {
		t.Totals.First = at
	}
	if t.Totals.Last.IsZero() || at.After(t.Totals.Last) {
		t.Totals.Last = at
	}

	conv, ok := t.Conversations[key]
	if !ok {
		conv = &ConversationTally{Name: key, FirstSeen: at, LastSeen: at}
		t.Conversations[key] = conv
		t.Order = append(t.Order, key)
	}
	conv.Count++
	conv.LastSeen = at
}

// Rows returns the conversations in first-seen order.
func (t *Tally) Rows() []*ConversationTally {
	rows := make([]*ConversationTally, 0, len(t.Order))
	for _, key := range t.Order {
		if conv, ok := t.Conversations[key]; ok {
			rows = append(rows, conv)
		}
	}
	return rows
}

// Clone returns a deep copy that shares nothing with t.
func (t *Tally) Clone() *Tally {
	if t == nil {
		return NewTally()
	}
	out := &Tally{
		Conversations: make(map[string]*ConversationTally, len(t.Conversations)),
		Order:         append([]string(nil), t.Order...),
		Totals:        t.Totals,
	}
	for k, v := range t.Conversations {
		c := *v
		out.Conversations[k] = &c
	}
	return out
}

// Snapshot is a point-in-time copy of the tally read by exporters.
type Snapshot struct {
	RunID   string    `json:"run_id"`
	TakenAt time.Time `json:"taken_at"`
	*Tally
}
