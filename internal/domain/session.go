package domain

import "time"

// AnswerRecord snapshots one answered question. Scores is copied at answer
// time so later catalog or weight changes never rewrite history.
type AnswerRecord struct {
	OptionIndex int            `json:"option_index"`
	OptionText  string         `json:"option_text"`
	Scores      map[string]int `json:"scores"`
	AnsweredAt  time.Time      `json:"answered_at"`
}

// SortingSession is the per-player game state. IDs are caller supplied and
// not guaranteed unique: starting twice with the same id silently overwrites.
type SortingSession struct {
	ID        string                  `json:"id"`
	Scores    map[string]int          `json:"scores"`
	Asked     []string                `json:"asked"`
	Answers   map[string]AnswerRecord `json:"answers"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// NewSortingSession returns a fresh session with zeroed house accumulators.
func NewSortingSession(id string) *SortingSession {
	now := time.Now().UTC()
	scores := make(map[string]int, len(Houses))
	for _, h := range Houses {
		scores[h] = 0
	}
	return &SortingSession{
		ID:        id,
		Scores:    scores,
		Asked:     []string{},
		Answers:   make(map[string]AnswerRecord),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasAnswered reports whether questionID already appears in the history.
func (s *SortingSession) HasAnswered(questionID string) bool {
	_, ok := s.Answers[questionID]
	return ok
}

// RecordAnswer accumulates the option scores and appends to history.
// Callers must validate the answer first; no checks happen here.
func (s *SortingSession) RecordAnswer(questionID string, optionIndex int, option Option) {
	scores := make(map[string]int, len(option.Scores))
	for house, pts := range option.Scores {
		scores[house] = pts
		s.Scores[house] += pts
	}
	s.Answers[questionID] = AnswerRecord{
		OptionIndex: optionIndex,
		OptionText:  option.Text,
		Scores:      scores,
		AnsweredAt:  time.Now().UTC(),
	}
	s.Asked = append(s.Asked, questionID)
	s.UpdatedAt = time.Now().UTC()
}

// Clone returns a deep copy so callers can read or mutate without racing
// the stored session.
func (s *SortingSession) Clone() *SortingSession {
	if s == nil {
		return nil
	}
	cp := &SortingSession{
		ID:        s.ID,
		Scores:    make(map[string]int, len(s.Scores)),
		Asked:     make([]string, len(s.Asked)),
		Answers:   make(map[string]AnswerRecord, len(s.Answers)),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	for h, v := range s.Scores {
		cp.Scores[h] = v
	}
	copy(cp.Asked, s.Asked)
	for q, rec := range s.Answers {
		scores := make(map[string]int, len(rec.Scores))
		for h, v := range rec.Scores {
			scores[h] = v
		}
		rec.Scores = scores
		cp.Answers[q] = rec
	}
	return cp
}
