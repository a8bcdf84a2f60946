package harness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/drillkit/internal/journal"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for i, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s %s\n", i+1, event.Kind, event.Name)
	}

	return buf.String()
}

// assertTraceContains checks that an event of the given kind and name was
// traced.
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if event.Kind == assertion.Kind && event.Name == assertion.Name {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("%s %q", assertion.Kind, assertion.Name),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks if names first appear in the specified order.
// Names don't need to be consecutive (intervening events are allowed).
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		if positions[event.Name] == 0 {
			positions[event.Name] = i + 1 // 1-indexed for readability
		}
	}

	for _, name := range assertion.Names {
		if positions[name] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all names present: %v", assertion.Names),
				Actual:   fmt.Sprintf("missing name: %s", name),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(assertion.Names); i++ {
		prev := assertion.Names[i-1]
		curr := assertion.Names[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("names in order: %v", assertion.Names),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks if the kind appears exactly the specified number
// of times.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Kind == assertion.Kind {
			count++
		}
	}
	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.Kind),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertJournal checks the journaled elements of the session, in seq
// order, and their suppressed flags when given.
func assertJournal(ctx context.Context, j *journal.Journal, session string, assertion Assertion) error {
	entries, err := j.ReadSession(ctx, session)
	if err != nil {
		return fmt.Errorf("journal assertion: %w", err)
	}

	elements := make([]string, len(entries))
	suppressed := make([]bool, len(entries))
	for i, e := range entries {
		elements[i] = e.Element
		suppressed[i] = e.Suppressed
	}

	if !slices.Equal(assertion.Elements, elements) {
		return &AssertionError{
			Type:     AssertJournal,
			Expected: fmt.Sprintf("elements %v", assertion.Elements),
			Actual:   fmt.Sprintf("elements %v", elements),
		}
	}
	if assertion.Suppressed != nil && !slices.Equal(assertion.Suppressed, suppressed) {
		return &AssertionError{
			Type:     AssertJournal,
			Expected: fmt.Sprintf("suppressed %v", assertion.Suppressed),
			Actual:   fmt.Sprintf("suppressed %v", suppressed),
		}
	}
	return nil
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Journal *journal.Journal
	Session string
	Ctx     context.Context
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// The actx parameter provides journal access for journal assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertJournal:
			if actx == nil || actx.Journal == nil {
				err = fmt.Errorf("assertion[%d]: journal requires journal context", i)
			} else {
				err = assertJournal(actx.Ctx, actx.Journal, actx.Session, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
