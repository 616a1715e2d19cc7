package mealplan

import (
	"errors"
	"strings"
	"time"

	"github.com/alchemorsel/recipebox/internal/domain/mealplan"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ErrUnrecognisedDate is returned when a date is neither ISO nor a phrase
// the parser understands
var ErrUnrecognisedDate = errors.New("enter a date like 2024-01-31 or a phrase like \"next friday\"")

// DateParser resolves plan dates given as ISO dates or English phrases
type DateParser struct {
	w *when.Parser
}

// NewDateParser creates a parser with the English and common rule sets
func NewDateParser() *DateParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &DateParser{w: w}
}

// Parse resolves text relative to now and truncates the result to a day
func (p *DateParser) Parse(text string, now time.Time) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, mealplan.ErrDateRequired
	}

	if t, err := time.Parse(mealplan.DateLayout, text); err == nil {
		return t, nil
	}

	r, err := p.w.Parse(text, now)
	if err != nil {
		return time.Time{}, err
	}
	if r == nil {
		return time.Time{}, ErrUnrecognisedDate
	}
	return mealplan.Day(r.Time), nil
}
