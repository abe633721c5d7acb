package events

import (
	"sync"

	"github.com/itsatony/headcount/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

const (
	CameraRefreshed      = "camera.refreshed"
	ObservationsIngested = "observations.ingested"
	RefreshFailed        = "refresh.failed"

	CameraCreated   = "camera.created"
	CameraUpdated   = "camera.updated"
	CameraDeleted   = "camera.deleted"
	ScheduleCreated = "schedule.created"
	ScheduleUpdated = "schedule.updated"
	ScheduleDeleted = "schedule.deleted"
)

// Bus distributes refresh and registry notifications inside the process.
// Emit* returns immediately and handlers run on their own goroutines.
type Bus struct {
	emitter *nuts.EventEmitter
	pending sync.WaitGroup
}

// NewBus creates a new Bus
func NewBus() *Bus {
	return &Bus{
		emitter: nuts.NewEventEmitter(),
	}
}

func (b *Bus) dispatch(event string, arg interface{}) {
	b.pending.Add(1)
	go func() {
		defer b.pending.Done()
		if err := b.emitter.EmitConcurrent(event, arg); err != nil {
			nuts.L.Errorf("[Events] Failed to deliver %s: %v", event, err)
		}
	}()
}

// Wait blocks until every event emitted so far has been handled.
func (b *Bus) Wait() {
	if b == nil {
		return
	}
	b.pending.Wait()
}

// EmitCameraRefreshed announces the ids whose last refresh was advanced in one tick.
func (b *Bus) EmitCameraRefreshed(ids []int64) {
	if b == nil {
		return
	}
	b.dispatch(CameraRefreshed, ids)
}

// EmitObservationsIngested announces a committed batch of observations.
func (b *Bus) EmitObservationsIngested(observations []*models.CountObservation) {
	if b == nil {
		return
	}
	b.dispatch(ObservationsIngested, observations)
}

func (b *Bus) EmitRefreshFailed(err error) {
	// a nil interface carries no type for the emitter to match
	if b == nil || err == nil {
		return
	}
	b.dispatch(RefreshFailed, err)
}

// EmitEntity announces a registry change for the given id.
func (b *Bus) EmitEntity(event string, id int64) {
	if b == nil {
		return
	}
	b.dispatch(event, id)
}

func (b *Bus) OnCameraRefreshed(handler func(ids []int64)) {
	b.on(CameraRefreshed, handler)
}

func (b *Bus) OnObservationsIngested(handler func(observations []*models.CountObservation)) {
	b.on(ObservationsIngested, handler)
}

func (b *Bus) OnRefreshFailed(handler func(err error)) {
	b.on(RefreshFailed, handler)
}

// OnEntity registers a callback for one of the registry change events
func (b *Bus) OnEntity(event string, handler func(id int64)) {
	b.on(event, handler)
}

// on registers handler as is; the emitter matches emitted arguments against
// the handler's parameter types.
func (b *Bus) on(event string, handler interface{}) {
	if _, err := b.emitter.On(event, handlerID(event), handler); err != nil {
		nuts.L.Errorf("[Events] Failed to register handler for %s: %v", event, err)
	}
}

// handlers registered for the same event need distinct ids
func handlerID(event string) string {
	return event + "_" + nuts.NID("h", 8)
}
