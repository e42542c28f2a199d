package domain

import "time"

// MonitoredTopic is a watched keyword set with a priority floor. Topics are
// created and deactivated explicitly; deactivation removes a topic from
// future evaluation without deleting its alert history.
type MonitoredTopic struct {
	ID                string    `json:"id"`
	ProfileID         string    `json:"profile_id"`
	Name              string    `json:"name"`
	Keywords          []string  `json:"keywords"`
	PriorityThreshold Priority  `json:"priority_threshold"`
	Active            bool      `json:"active"`
	CreatedAt         time.Time `json:"created_at"`
}

// Clone returns a deep copy safe for independent mutation.
func (t *MonitoredTopic) Clone() *MonitoredTopic {
	clone := *t
	clone.Keywords = append([]string(nil), t.Keywords...)
	return &clone
}

// TopicAlert records one triggered (topic, item) pair. Alerts outlive the
// deactivation of their topic.
type TopicAlert struct {
	ID        string    `json:"id"`
	TopicID   string    `json:"topic_id"`
	ItemID    string    `json:"item_id"`
	Priority  Priority  `json:"priority"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
