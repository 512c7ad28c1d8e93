package domain

// Option is one selectable answer with its per-house score contribution.
// Scores may be zero or negative and are immutable after catalog load.
type Option struct {
	Text   string         `json:"text"`
	Scores map[string]int `json:"scores"`
}

// Question is an immutable catalog entry with its ordered options.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}
