// Package classifier turns raw citizen evidence (free text plus an optional
// photo) into a classification drawn from the closed report taxonomy. An
// AI-assisted strategy is tried first when configured; a deterministic
// keyword strategy is the terminal fallback, so classification as a whole
// never fails the caller.
package classifier

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/Anitej05/Civic-Connect/internal/pkg/logger"
	"github.com/Anitej05/Civic-Connect/internal/taxonomy"
)

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500

	// DefaultTitle is used when no usable title can be derived.
	DefaultTitle = "Citizen report"
)

// Evidence is the reconciled input a strategy classifies: the reporter's
// own words and, when a photo was attached, a short machine caption of it.
type Evidence struct {
	Text    string
	Caption string
}

// Combined returns all textual evidence as a single string.
func (e Evidence) Combined() string {
	if e.Caption == "" {
		return e.Text
	}
	if e.Text == "" {
		return e.Caption
	}
	return e.Text + "\n" + e.Caption
}

// Result is a classification of one report.
type Result struct {
	Title       string
	Category    taxonomy.Category
	Urgency     taxonomy.Urgency
	Department  taxonomy.Department
	Description string
}

// Strategy classifies evidence. Strategies may fail; the Engine decides
// what happens next.
type Strategy interface {
	Name() string
	Classify(ctx context.Context, ev Evidence) (Result, error)
}

// Captioner produces a short textual description of an image.
type Captioner interface {
	Caption(ctx context.Context, image []byte) (string, error)
}

// Engine runs strategies in priority order and guarantees a sanitized,
// taxonomy-valid result. The final strategy must be total; NewEngine
// appends the keyword classifier to enforce that.
type Engine struct {
	captioner  Captioner
	strategies []Strategy
}

// NewEngine builds an engine from an optional captioner and an optional
// primary strategy. The keyword classifier is always the terminal strategy.
func NewEngine(captioner Captioner, primary Strategy) *Engine {
	strategies := []Strategy{}
	if primary != nil {
		strategies = append(strategies, primary)
	}
	strategies = append(strategies, NewKeywordClassifier())

	return &Engine{
		captioner:  captioner,
		strategies: strategies,
	}
}

// Classify maps evidence to a sanitized Result. It never fails: strategy
// errors select the next strategy, and the terminal keyword strategy is
// total. Caption failures are swallowed, the caption is simply empty.
func (e *Engine) Classify(ctx context.Context, text string, image []byte) Result {
	ev := Evidence{Text: strings.TrimSpace(text)}

	if len(image) > 0 && e.captioner != nil {
		caption, err := e.captioner.Caption(ctx, image)
		if err != nil {
			logger.Warn("image caption failed, classifying on text only: %v", err)
		} else {
			ev.Caption = strings.TrimSpace(caption)
		}
	}

	var result Result
	for _, s := range e.strategies {
		r, err := s.Classify(ctx, ev)
		if err != nil {
			logger.Warn("classifier strategy %s failed: %v", s.Name(), err)
			continue
		}
		result = r
		break
	}

	return sanitize(result, ev)
}

// sanitize forces every field into its closed set and caps lengths. Applied
// to every result regardless of which strategy produced it.
func sanitize(r Result, ev Evidence) Result {
	if !taxonomy.ValidCategory(r.Category) {
		r.Category = taxonomy.CategoryOther
	}
	if !taxonomy.ValidUrgency(r.Urgency) {
		r.Urgency = taxonomy.UrgencyLow
	}
	if !taxonomy.ValidDepartment(r.Department) {
		r.Department = taxonomy.DepartmentGeneral
	}

	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		r.Title = strings.TrimSpace(ev.Text)
	}
	if r.Title == "" {
		r.Title = DefaultTitle
	}
	r.Title = strings.TrimSpace(Truncate(r.Title, MaxTitleLength))

	if r.Description == "" {
		r.Description = ev.Text
	}
	r.Description = Truncate(r.Description, MaxDescriptionLength)

	return r
}

// Truncate caps s at max characters, never splitting a multi-byte rune.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
