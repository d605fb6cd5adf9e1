package eventbus

import (
	"sync"

	"github.com/cskr/pubsub/v2"
)

// nilEventHandler represents a disabled event handler.
type nilEventHandler struct{}

// defaultEventHandler represents an internal event handler.
type defaultEventHandler struct {
	*pubsub.PubSub[uint, any]

	closed bool
	mu     sync.RWMutex
}

// EventPublisher represents an interface that provides an event publisher.
type EventPublisher interface {
	// Publish publishes an event to the event stream.
	Publish(id uint, name string, data any)
}

// EventSubscriber represents an interface that provides an event subscriber.
type EventSubscriber interface {
	// Subscribe subscribes to an event from the event stream.
	Subscribe(id uint, name string) SubscriberID
}

// EventHandler represents an interface that provides an event publisher and subscriber.
type EventHandler interface {
	EventPublisher
	EventSubscriber
}

// eventHandler represents the main event handler.
type eventHandler struct {
	p EventPublisher
	s EventSubscriber

	mu sync.RWMutex
}

// defaultCapacity is the buffer size of each subscriber channel.
const defaultCapacity = 10

var eventEmitter eventHandler

func init() {
	RegisterEventHandler(DefaultHandler())
}

// RegisterEventHandler registers the event handler interface.
// A previously registered default handler is shut down.
func RegisterEventHandler(eh EventHandler) {
	if eh == nil {
		return
	}

	RegisterEventHandlers(eh, eh)
}

// RegisterEventHandlers registers the event publisher and subscriber interfaces separately.
// To disable an EventPublisher or EventSubscriber, pass 'nil' as the parameter.
// For example: `RegisterEventHandlers(&eventPublisher{}, nil)` can be called to only register
// an event publisher.
func RegisterEventHandlers(p EventPublisher, s EventSubscriber) {
	if p == nil {
		p = NilHandler()
	}
	if s == nil {
		s = NilHandler()
	}

	eventEmitter.mu.Lock()
	oldp, olds := eventEmitter.p, eventEmitter.s
	eventEmitter.p = p
	eventEmitter.s = s
	eventEmitter.mu.Unlock()

	for _, old := range []any{oldp, olds} {
		d, ok := old.(*defaultEventHandler)
		if !ok || d == any(p) || d == any(s) {
			continue
		}

		d.shutdown()
	}
}

// DisableEvents unregisters the event handler.
func DisableEvents() {
	RegisterEventHandler(NilHandler())
}

// Publish calls the registered publisher handler.
func Publish(id EventID, data any) {
	if id == nil {
		return
	}

	eventEmitter.mu.RLock()
	p := eventEmitter.p
	eventEmitter.mu.RUnlock()

	p.Publish(id.Value(), id.String(), data)
}

// Subscribe calls the registered subscriber handler.
func Subscribe(id EventID) SubscriberID {
	if id == nil {
		return NilHandler().Subscribe(0, "")
	}

	eventEmitter.mu.RLock()
	s := eventEmitter.s
	eventEmitter.mu.RUnlock()

	return s.Subscribe(id.Value(), id.String())
}

// DefaultHandler returns the default event handler.
func DefaultHandler() *defaultEventHandler {
	return &defaultEventHandler{PubSub: pubsub.New[uint, any](defaultCapacity)}
}

// NilHandler returns a disabled event handler.
func NilHandler() *nilEventHandler {
	return &nilEventHandler{}
}

// Publish publishes an event to the event stream.
func (d *defaultEventHandler) Publish(id uint, name string, data any) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}

	d.TryPub(data, id)
}

// Subscribe subscribes to an event from the event stream.
// Subscribing to a shut down handler returns an inactive subscription.
func (d *defaultEventHandler) Subscribe(id uint, name string) SubscriberID {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return NilHandler().Subscribe(id, name)
	}

	ch := d.Sub(id)
	return SubscriberID{
		C:      ch,
		active: true,
		once:   &sync.Once{},
		unsub: func() {
			go d.unsubscribe(ch, id)
		},
	}
}

func (d *defaultEventHandler) unsubscribe(ch chan any, id uint) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	// Shutdown has already closed every subscriber channel.
	if d.closed {
		return
	}

	d.Unsub(ch, id)
}

// shutdown stops the pubsub goroutine and closes all subscriber channels.
func (d *defaultEventHandler) shutdown() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.closed = true

	d.Shutdown()
}

// Publish does not do anything.
func (n *nilEventHandler) Publish(uint, string, any) {
}

// Subscribe does not do anything.
func (n *nilEventHandler) Subscribe(uint, string) SubscriberID {
	ch := make(chan any)
	close(ch)
	return SubscriberID{C: ch}
}
