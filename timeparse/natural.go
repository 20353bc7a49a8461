// Package timeparse turns free-text time expressions into absolute instants.
// It covers two grammars: relative durations ("2 hours 15 minutes") parsed
// locally, and natural-language phrases ("today 3pm", "next friday")
// delegated to external interpreters.
package timeparse

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/tj/go-naturaldate"
)

var (
	// ErrInvalidTimezone reports a name missing from the IANA database.
	ErrInvalidTimezone = errors.New("unknown timezone")
	// ErrUnparseableTime reports a phrase no interpreter understood.
	ErrUnparseableTime = errors.New("unparseable time")
)

// LoadZone validates an IANA timezone name and returns its location.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	return loc, nil
}

// Interpreter is the phrase-interpretation capability the resolver delegates
// to. Implementations read ref for "now" and its location for the target
// timezone. The bool reports whether anything in the text was understood.
type Interpreter interface {
	Interpret(text string, ref time.Time) (time.Time, bool, error)
}

// Exact layouts tried before natural-language interpretation, so inputs like
// "2025-01-15 16:00" don't depend on a phrase grammar.
var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

type chainInterpreter struct {
	w *when.Parser
}

// NewInterpreter returns the production interpreter chain: exact layouts,
// then olebedev/when with English and common rules, then go-naturaldate
// biased toward the future.
func NewInterpreter() Interpreter {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &chainInterpreter{w: w}
}

func (c *chainInterpreter) Interpret(text string, ref time.Time) (time.Time, bool, error) {
	s := strings.TrimSpace(text)
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, s, ref.Location()); err == nil {
			return t, true, nil
		}
	}

	r, err := c.w.Parse(s, ref)
	if err != nil {
		return time.Time{}, false, err
	}
	if r != nil {
		return r.Time, true, nil
	}

	// naturaldate returns ref unchanged, without error, when nothing in the
	// text matches. A result equal to ref therefore means no match; "now"-like
	// phrases are already handled by when.
	if t, err := naturaldate.Parse(s, ref, naturaldate.WithDirection(naturaldate.Future)); err == nil && !t.Equal(ref) {
		return t, true, nil
	}
	return time.Time{}, false, nil
}

// Resolver converts natural-language phrases into instants in a requester's
// timezone. It owns interpreter configuration and failure surfacing; the
// phrase grammar itself is the interpreter's contract.
type Resolver struct {
	interp Interpreter
	now    func() time.Time
}

// NewResolver returns a Resolver delegating to interp.
func NewResolver(interp Interpreter) *Resolver {
	return &Resolver{interp: interp, now: time.Now}
}

// Resolve interprets text relative to the current moment in the named
// timezone. Ambiguous time-of-day phrases that land earlier on the current
// calendar day roll forward one day, so a bare "3pm" asked at 5pm means
// tomorrow, never the past; phrases naming the day ("today 3pm") keep it.
// Fails with ErrInvalidTimezone for an
// unrecognized zone and ErrUnparseableTime when no interpreter understood
// the text.
func (r *Resolver) Resolve(text, timezoneName string) (time.Time, error) {
	loc, err := LoadZone(timezoneName)
	if err != nil {
		return time.Time{}, err
	}

	ref := r.now().In(loc)
	t, ok, err := r.interp.Interpret(text, ref)
	if err != nil || !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableTime, text)
	}

	t = t.In(loc)
	if t.Before(ref) && sameDay(t, ref) && !namesDay(text) {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}

// Phrases that pin the calendar day keep it even when the named moment has
// already passed; only bare time-of-day phrases are ambiguous enough to roll
// forward.
var dayMarkers = []string{"today", "tonight", "tomorrow", "yesterday"}

func namesDay(text string) bool {
	s := strings.ToLower(text)
	for _, marker := range dayMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
