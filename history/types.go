// Package history keeps bounded per-user conversation history and persists
// it through a write-through JSON file store.
package history

// DefaultMaxTurns bounds each user's history. One turn is a single user or
// assistant message, so the default keeps five exchanges.
const DefaultMaxTurns = 10

type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Snapshot is the serialized shape of the whole store: user id to ordered
// turns, oldest first.
type Snapshot map[string][]Turn
