package telemetry

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iot-workbench/iotwb/internal/apperr"
)

// Result 操作结果
type Result string

const (
	Succeeded Result = "Succeeded"
	Cancelled Result = "Cancelled"
	Failed    Result = "Failed"
)

// Operation annotates one user-facing command with its outcome.
type Operation struct {
	ID      string
	Name    string
	Started time.Time
	Props   map[string]string

	log zerolog.Logger
	now func() time.Time
}

func Start(log zerolog.Logger, name string) *Operation {
	return &Operation{
		ID:      uuid.NewString(),
		Name:    name,
		Started: time.Now(),
		Props:   map[string]string{},
		log:     log,
		now:     time.Now,
	}
}

// Set adds a property to the final event.
func (o *Operation) Set(key, value string) {
	o.Props[key] = value
}

// Classify maps an error to a result. Cancellation is never a failure.
func Classify(err error) Result {
	switch {
	case err == nil:
		return Succeeded
	case apperr.IsCancelled(err):
		return Cancelled
	default:
		return Failed
	}
}

// Finish emits the event and returns the result. Failures are logged at
// info level; the CLI reports the error to the user itself.
func (o *Operation) Finish(err error) Result {
	result := Classify(err)

	ev := o.log.Info()
	if result == Failed {
		ev = ev.Err(err).Str("error_kind", string(apperr.KindOf(err)))
	}
	ev = ev.Str("operation_id", o.ID).
		Str("operation", o.Name).
		Str("result", string(result)).
		Dur("duration", o.now().Sub(o.Started))
	for k, v := range o.Props {
		ev = ev.Str(k, v)
	}
	ev.Msg("operation finished")

	return result
}
