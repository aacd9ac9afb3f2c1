package chat

import "github.com/Semara-26/shiki-pilot/core"

// PendingMessage is a client-side message shown optimistically before the
// server confirmed it.
type PendingMessage struct {
	Role    core.MessageRole
	Content string
}

// ReconcilePending returns the pending messages that are still awaiting
// confirmation. A pending message is dropped once a confirmed message with
// the same role and content exists; each confirmed message settles at most
// one pending entry, so repeated identical questions stay pending until
// each one lands.
func ReconcilePending(confirmed []*core.Message, pending []PendingMessage) []PendingMessage {
	used := make([]bool, len(confirmed))

	var remaining []PendingMessage
	for _, p := range pending {
		matched := false
		for i, c := range confirmed {
			if used[i] {
				continue
			}
			if c.Role == p.Role && c.Content == p.Content {
				used[i] = true
				matched = true
				break
			}
		}
		if !matched {
			remaining = append(remaining, p)
		}
	}
	return remaining
}
