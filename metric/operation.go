package metric

import (
	"time"

	"github.com/viant/gmetric/counter"
)

// Counter represents gmetric operation counter subset used by pipeline stages
type Counter interface {
	Begin(started time.Time) counter.OnDone
	IncrementValue(value interface{}) int64
}

// Operation counts a single pipeline stage, it is a no-op without a counter
type Operation struct {
	name    string
	counter Counter
}

// Name returns operation name
func (o *Operation) Name() string {
	return o.name
}

// Enabled returns true if operation is backed by a counter
func (o *Operation) Enabled() bool {
	return o.counter != nil
}

// Count records event
func (o *Operation) Count(event Event) {
	if o.counter == nil {
		return
	}
	o.counter.IncrementValue(event)
}

// Track starts timing the stage, the returned func stops it and counts Success or Error
func (o *Operation) Track() func(err error) {
	if o.counter == nil {
		return func(error) {}
	}
	onDone := o.counter.Begin(time.Now())
	return func(err error) {
		onDone(time.Now())
		if err != nil {
			o.counter.IncrementValue(Error)
			return
		}
		o.counter.IncrementValue(Success)
	}
}
