// Package catalog loads and serves the sorting question bank. The bank is
// read once (CSV or structured JSON) and immutable afterwards.
package catalog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Sainava/Wiz-Scholar/internal/domain"
)

// Catalog is the ordered, validated question bank.
type Catalog struct {
	questions []domain.Question
	byID      map[string]int
}

// New validates questions and builds the lookup index. Every option must
// reference only known houses and every question needs at least one option.
func New(questions []domain.Question) (*Catalog, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions", domain.ErrMalformedCatalog)
	}
	byID := make(map[string]int, len(questions))
	for i, q := range questions {
		if strings.TrimSpace(q.ID) == "" {
			return nil, fmt.Errorf("%w: question %d has empty id", domain.ErrMalformedCatalog, i)
		}
		if _, dup := byID[q.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate question id %q", domain.ErrMalformedCatalog, q.ID)
		}
		if len(q.Options) == 0 {
			return nil, fmt.Errorf("%w: question %q has no options", domain.ErrMalformedCatalog, q.ID)
		}
		for j, opt := range q.Options {
			for house := range opt.Scores {
				if !domain.IsHouse(house) {
					return nil, fmt.Errorf("%w: question %q option %d references unknown house %q",
						domain.ErrMalformedCatalog, q.ID, j, house)
				}
			}
		}
		byID[q.ID] = i
	}
	return &Catalog{questions: questions, byID: byID}, nil
}

// LoadFile reads a question bank from path, dispatching on the extension:
// .csv for the raw Question_Bank format, .json for structured questions.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open question bank: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(f)
	default:
		return LoadCSV(f)
	}
}

// LoadJSON reads the structured question list produced by the training
// pipeline (structured_questions.json).
func LoadJSON(r io.Reader) (*Catalog, error) {
	var questions []domain.Question
	if err := json.NewDecoder(r).Decode(&questions); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedCatalog, err)
	}
	return New(questions)
}

// csvHouseColumns maps bank header names to score keys, in column order.
var csvHouseColumns = []string{
	domain.HouseGryffindor,
	domain.HouseHufflepuff,
	domain.HouseRavenclaw,
	domain.HouseSlytherin,
}

// LoadCSV reads the raw Question_Bank.csv format: rows are grouped by
// question id, the first row of a group carries the question text, and
// every row with a non-empty option column contributes one option with
// four integer house scores.
func LoadCSV(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", domain.ErrMalformedCatalog, err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range append([]string{"Question ID", "Question Text", "Answer Option"}, csvHouseColumns...) {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", domain.ErrMalformedCatalog, required)
		}
	}

	var (
		questions []domain.Question
		current   *domain.Question
		line      = 1
	)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrMalformedCatalog, line+1, err)
		}
		line++

		field := func(name string) string {
			i := col[name]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		if id := field("Question ID"); id != "" {
			if current != nil {
				questions = append(questions, *current)
			}
			current = &domain.Question{ID: id, Text: field("Question Text")}
		}
		optText := field("Answer Option")
		if optText == "" || current == nil {
			continue
		}
		scores := make(map[string]int, len(csvHouseColumns))
		for _, house := range csvHouseColumns {
			raw := field(house)
			pts, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %s score %q: %v",
					domain.ErrMalformedCatalog, line, house, raw, err)
			}
			scores[house] = pts
		}
		current.Options = append(current.Options, domain.Option{Text: optText, Scores: scores})
	}
	if current != nil {
		questions = append(questions, *current)
	}
	return New(questions)
}

// Len returns the number of questions in the bank.
func (c *Catalog) Len() int {
	return len(c.questions)
}

// Questions returns the bank in catalog order. The slice is a copy; the
// questions themselves are shared and must not be mutated.
func (c *Catalog) Questions() []domain.Question {
	out := make([]domain.Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// QuestionByID resolves a question or reports ErrQuestionNotFound.
func (c *Catalog) QuestionByID(id string) (domain.Question, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Question{}, fmt.Errorf("%w: %q", domain.ErrQuestionNotFound, id)
	}
	return c.questions[i], nil
}

// FirstUnasked returns the first question in catalog order whose id is not
// in asked, or ok=false when the bank is exhausted.
func (c *Catalog) FirstUnasked(asked []string) (domain.Question, bool) {
	seen := make(map[string]struct{}, len(asked))
	for _, id := range asked {
		seen[id] = struct{}{}
	}
	for _, q := range c.questions {
		if _, done := seen[q.ID]; !done {
			return q, true
		}
	}
	return domain.Question{}, false
}
