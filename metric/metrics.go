// Package metric exposes pipeline operation counters
package metric

import (
	"reflect"
	"sync"
	"time"

	"github.com/viant/gmetric"
	"github.com/viant/gmetric/provider"
)

// Event represents counted operation outcome
type Event string

const (
	Hit     Event = "Hit"
	Miss    Event = "Miss"
	Pending Event = "Pending"
	Error   Event = "Error"
	Success Event = "Success"
)

const (
	Generate = "generate"
	Compile  = "compile"
	Resolve  = "resolve"
	Load     = "load"
)

type location struct{}

// Metrics holds named operation counters
type Metrics struct {
	Service    *gmetric.Service
	mux        sync.Mutex
	operations map[string]*Operation
}

// Operation returns operation for name, created on first use
func (m *Metrics) Operation(name string) *Operation {
	m.mux.Lock()
	defer m.mux.Unlock()
	if operation, ok := m.operations[name]; ok {
		return operation
	}
	var aCounter Counter
	if m.Service != nil {
		if registered := m.Service.LookupOperation(name); registered != nil {
			aCounter = registered
		} else {
			aCounter = m.Service.MultiOperationCounter(reflect.TypeOf(location{}).PkgPath(), name, name+" performance", time.Millisecond, time.Minute, 2, provider.NewBasic())
		}
	}
	operation := &Operation{name: name, counter: aCounter}
	m.operations[name] = operation
	return operation
}

// New creates metrics, nil service disables counting
func New(service *gmetric.Service) *Metrics {
	return &Metrics{Service: service, operations: map[string]*Operation{}}
}
