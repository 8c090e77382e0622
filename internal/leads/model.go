package leads

import "time"

// Lead is the completed intake tuple captured by the conversation flow,
// destined for the external spreadsheet.
type Lead struct {
	Timestamp time.Time `json:"timestamp"`
	SenderID  string    `json:"sender_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Goal      string    `json:"goal"`
	Notes     string    `json:"notes"`
}

// Row renders the lead as a spreadsheet row:
// [timestamp, sender_id, name, phone, goal, notes].
func (l Lead) Row() []any {
	return []any{
		l.Timestamp.UTC().Format("2006-01-02 15:04:05"),
		l.SenderID,
		l.Name,
		l.Phone,
		l.Goal,
		l.Notes,
	}
}
