package conversation

import "time"

// State is the position of a conversation in the scripted intake flow.
type State string

const (
	StateAskName  State = "ASK_NAME"
	StateAskPhone State = "ASK_PHONE"
	StateAskGoal  State = "ASK_GOAL"
	StateAskNotes State = "ASK_NOTES"
)

// Record is the per-sender conversation state. At most one record exists per
// sender; absence of a record means no active conversation.
type Record struct {
	SenderID    string    `json:"sender_id"`
	State       State     `json:"state"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Goal        string    `json:"goal"`
	Notes       string    `json:"notes"`
	LastUpdated time.Time `json:"last_updated"`
}

// Fields is a partial update applied by Upsert. Nil members are left
// untouched on an existing record; fields are only ever set, never cleared,
// until the record is deleted.
type Fields struct {
	State *State
	Name  *string
	Phone *string
	Goal  *string
	Notes *string
}

func stateRef(s State) *State { return &s }

func stringRef(s string) *string { return &s }

// apply merges the set fields into the record.
func (f Fields) apply(rec *Record) {
	if f.State != nil {
		rec.State = *f.State
	}
	if f.Name != nil {
		rec.Name = *f.Name
	}
	if f.Phone != nil {
		rec.Phone = *f.Phone
	}
	if f.Goal != nil {
		rec.Goal = *f.Goal
	}
	if f.Notes != nil {
		rec.Notes = *f.Notes
	}
}
