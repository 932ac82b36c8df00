package models

// EventTypeCount is one event type with its occurrence count in the archive.
type EventTypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// ActorEventCount is one archive actor with its total event count. Known
// marks actors whose login matches a resolved identity's display name.
type ActorEventCount struct {
	Login  string `json:"login"`
	Events int    `json:"events"`
	Known  bool   `json:"known"`
}

// EventStats summarizes a GitHub event archive after joining actors
// against the resolved author identities.
type EventStats struct {
	TotalEvents   int                `json:"total_events"`
	DroppedLines  int                `json:"dropped_lines"`
	ByType        []*EventTypeCount  `json:"by_type"`
	TopActors     []*ActorEventCount `json:"top_actors"`
	MatchedActors int                `json:"matched_actors"`
}
