package bridge

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	json "github.com/goccy/go-json"

	"github.com/roach88/drillkit/internal/drill"
	"github.com/roach88/drillkit/internal/predicate"
)

// CommandErrorCode categorizes a rejected host command.
type CommandErrorCode string

const (
	ErrCodeInvalidCommand  CommandErrorCode = "error:invalidCommand"
	ErrCodeInvalidArgument CommandErrorCode = "error:invalidArgument"
)

// CommandError reports a host command that could not be processed.
type CommandError struct {
	Code      CommandErrorCode
	Message   string
	ContextID string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidCommand returns true if err is a CommandError for an
// unrecognized command.
func IsInvalidCommand(err error) bool {
	var ce *CommandError
	return errors.As(err, &ce) && ce.Code == ErrCodeInvalidCommand
}

// IsInvalidArgument returns true if err is a CommandError for a malformed
// command body.
func IsInvalidArgument(err error) bool {
	var ce *CommandError
	return errors.As(err, &ce) && ce.Code == ErrCodeInvalidArgument
}

// SimpleDrillableItems lists drillable objects by uri and identifier.
type SimpleDrillableItems struct {
	URIs        []string `json:"uris,omitempty"`
	Identifiers []string `json:"identifiers,omitempty"`
}

// DrillableItems is the body of a drillableItems command. ComposedFrom
// lists masters whose derived and arithmetic measures are drillable.
type DrillableItems struct {
	SimpleDrillableItems
	ComposedFrom *SimpleDrillableItems `json:"composedFrom,omitempty"`
}

// Specs converts the body to drill specs: uris first, then identifiers,
// then the composedFrom uris and identifiers.
func (d DrillableItems) Specs() []drill.Spec {
	specs := []drill.Spec{}
	for _, uri := range d.URIs {
		specs = append(specs, drill.URISpec{URI: uri})
	}
	for _, id := range d.Identifiers {
		specs = append(specs, drill.IdentifierSpec{Identifier: id})
	}
	if d.ComposedFrom != nil {
		for _, uri := range d.ComposedFrom.URIs {
			specs = append(specs, drill.PredicateSpec{
				Predicate:   predicate.ComposedFromURI(uri),
				Description: fmt.Sprintf("composedFrom(uri=%s)", uri),
			})
		}
		for _, id := range d.ComposedFrom.Identifiers {
			specs = append(specs, drill.PredicateSpec{
				Predicate:   predicate.ComposedFromIdentifier(id),
				Description: fmt.Sprintf("composedFrom(identifier=%s)", id),
			})
		}
	}
	return specs
}

// DecodeDrillableItems extracts the body of a drillableItems command.
func DecodeDrillableItems(env Envelope) (DrillableItems, error) {
	ev := env.GDC.Event
	if ev.Name != CommandDrillableItems {
		return DrillableItems{}, &CommandError{
			Code:      ErrCodeInvalidCommand,
			Message:   fmt.Sprintf("unknown command %q", ev.Name),
			ContextID: ev.ContextID,
		}
	}
	var body DrillableItems
	if len(ev.Data) == 0 {
		return body, nil
	}
	if err := json.Unmarshal(ev.Data, &body); err != nil {
		return DrillableItems{}, &CommandError{
			Code:      ErrCodeInvalidArgument,
			Message:   fmt.Sprintf("drillableItems body: %v", err),
			ContextID: ev.ContextID,
		}
	}
	return body, nil
}

// CommandFailed is the body of an appCommandFailed envelope.
type CommandFailed struct {
	ErrorCode    CommandErrorCode `json:"errorCode"`
	ErrorMessage string           `json:"errorMessage"`
}

// ReadDrillableItems reads commands from r until EOF and returns the specs
// of every drillableItems command, in order. Failed commands are answered
// on the bridge with appCommandFailed and otherwise skipped. A framing
// error stops reading.
func (b *Bridge) ReadDrillableItems(r io.Reader) ([]drill.Spec, error) {
	dec := b.codec.NewDecoder(r)
	specs := []drill.Spec{}
	for {
		env, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return specs, nil
		}
		if err != nil {
			return specs, err
		}

		items, err := DecodeDrillableItems(env)
		if err != nil {
			var ce *CommandError
			if !errors.As(err, &ce) {
				return specs, err
			}
			slog.Debug("host command rejected", "code", ce.Code, "message", ce.Message)
			if err := b.reply(ce); err != nil {
				return specs, err
			}
			continue
		}
		specs = append(specs, items.Specs()...)
	}
}

func (b *Bridge) reply(ce *CommandError) error {
	return b.write(EventAppCommandFailed, ce.ContextID, CommandFailed{
		ErrorCode:    ce.Code,
		ErrorMessage: ce.Message,
	})
}
