// Package events carries model change notifications to observers such as a
// view layer. Delivery is synchronous, on the mutating goroutine.
package events

// Type identifies what changed.
type Type string

const (
	TypeStrandAdded     Type = "strand_added"
	TypeStrandRemoved   Type = "strand_removed"
	TypeStrandResized   Type = "strand_resized"
	TypeConnected       Type = "connected"
	TypeDisconnected    Type = "disconnected"
	TypeOligosRefreshed Type = "oligos_refreshed"
	TypePartResized     Type = "part_resized"
	TypeActiveChanged   Type = "active_changed"
)

// Event describes one change. Fields that do not apply to Type are zero.
type Event struct {
	Type Type

	// Helix is the number of the helix the change happened on.
	Helix int

	// Lane is the strand type name ("scaffold" or "staple").
	Lane string

	Low  int
	High int

	// Partner locates the other end of a connection.
	PartnerHelix int
	PartnerIdx   int
}

// Handler receives events.
type Handler func(Event)

// Bus fans events out to subscribers in subscription order.
type Bus struct {
	next     int
	handlers map[int]Handler
	order    []int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[int]Handler)}
}

// Subscribe registers h and returns a function that removes it.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	id := b.next
	b.next++
	b.handlers[id] = h
	b.order = append(b.order, id)
	return func() {
		delete(b.handlers, id)
		for i, o := range b.order {
			if o == id {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
	}
}

// Emit delivers e to every subscriber. A nil bus drops the event.
func (b *Bus) Emit(e Event) {
	if b == nil {
		return
	}
	for _, id := range append([]int(nil), b.order...) {
		if h, ok := b.handlers[id]; ok {
			h(e)
		}
	}
}

// Recorder collects events; handy for tests and batch tools.
type Recorder struct {
	Events []Event
}

// Handle appends e.
func (r *Recorder) Handle(e Event) {
	r.Events = append(r.Events, e)
}

// Count returns how many recorded events have type t.
func (r *Recorder) Count(t Type) int {
	n := 0
	for _, e := range r.Events {
		if e.Type == t {
			n++
		}
	}
	return n
}
