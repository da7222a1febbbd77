// Package catalog loads the questionnaire rubric (dimensions, questions,
// options, scores) from a tabular CSV source and exposes score lookup over it.
package catalog

import "strings"

// Option is one selectable answer for a question. Score is 0 when the source
// row carried no explicit score; lookup then falls back to the label letter.
type Option struct {
	Text  string
	Score int
}

// Question is one rubric question with its ordered options.
type Question struct {
	Dimension   string
	Text        string
	Description string
	Options     []Option
}

// Catalog is the parsed rubric. Dimensions keep first-seen order.
type Catalog struct {
	sections  []string
	questions map[string][]Question
}

// New builds a catalog from questions grouped in insertion order.
func New() *Catalog {
	return &Catalog{questions: make(map[string][]Question)}
}

func (c *Catalog) add(q Question) {
	if _, ok := c.questions[q.Dimension]; !ok {
		c.sections = append(c.sections, q.Dimension)
	}
	c.questions[q.Dimension] = append(c.questions[q.Dimension], q)
}

// OrderedSections returns dimension names in first-seen source order.
func (c *Catalog) OrderedSections() []string {
	out := make([]string, len(c.sections))
	copy(out, c.sections)
	return out
}

// Questions returns the questions of one section in source order.
func (c *Catalog) Questions(section string) []Question {
	return c.questions[section]
}

// TotalQuestions counts every question in the catalog.
func (c *Catalog) TotalQuestions() int {
	n := 0
	for _, qs := range c.questions {
		n += len(qs)
	}
	return n
}

// ScoreFor returns the score for an option of a question. An exact match in
// the parsed table wins; otherwise the score is derived from the option's
// leading label letter (A=1 through E=5, anything else 1).
func (c *Catalog) ScoreFor(dimension, question, option string) int {
	for _, q := range c.questions[dimension] {
		if q.Text != question {
			continue
		}
		for _, opt := range q.Options {
			if opt.Text == option && opt.Score > 0 {
				return opt.Score
			}
		}
	}
	return FallbackScore(option)
}

// MaxScore is the highest score an option can carry on the raw scale.
const MaxScore = 5

// FallbackScore derives a score from an option's leading label letter.
func FallbackScore(option string) int {
	trimmed := strings.TrimSpace(option)
	if trimmed == "" {
		return 1
	}
	switch trimmed[0] {
	case 'A':
		return 1
	case 'B':
		return 2
	case 'C':
		return 3
	case 'D':
		return 4
	case 'E':
		return 5
	}
	return 1
}
