package buildsvc

import "sync"

// EventType categorizes one broadcast build event.
type EventType string

const (
	// EventTypeStage reports a build stage starting, finishing or failing
	// (runBuild reports "begin", "translate" and "pipeline").
	EventTypeStage EventType = "stage"
	// EventTypeDiagnostic carries a non-fatal warning, sent through
	// BroadcastDiagnostic; runBuild itself sends none.
	EventTypeDiagnostic EventType = "diagnostic"
	// EventTypeComplete reports a session's build finishing, successfully
	// or not.
	EventTypeComplete EventType = "complete"
)

// BroadcastEvent is one event sent to subscribed WebSocket clients.
type BroadcastEvent struct {
	Type      EventType              `json:"type"`
	SessionID string                 `json:"sessionId"`
	Data      map[string]interface{} `json:"data"`
}

// Subscription is a client's filtered view onto the broadcaster's event
// stream.
type Subscription struct {
	SessionID  string
	EventTypes map[EventType]bool
	Channel    chan BroadcastEvent
}

// Broadcaster fans build events out to every subscribed client, the same
// register/unregister/broadcast channel shape the original emulator's
// debug-event broadcaster used, retargeted at build-pipeline events rather
// than VM execution events.
type Broadcaster struct {
	mu            sync.RWMutex
	subscriptions map[*Subscription]bool
	broadcast     chan BroadcastEvent
	register      chan *Subscription
	unregister    chan *Subscription
	done          chan struct{}
}

// NewBroadcaster creates and starts a new event broadcaster.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		subscriptions: make(map[*Subscription]bool),
		broadcast:     make(chan BroadcastEvent, 256),
		register:      make(chan *Subscription),
		unregister:    make(chan *Subscription),
		done:          make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Broadcaster) run() {
	for {
		select {
		case sub := <-b.register:
			b.mu.Lock()
			b.subscriptions[sub] = true
			b.mu.Unlock()

		case sub := <-b.unregister:
			b.mu.Lock()
			if b.subscriptions[sub] {
				delete(b.subscriptions, sub)
				close(sub.Channel)
			}
			b.mu.Unlock()

		case event := <-b.broadcast:
			b.mu.RLock()
			for sub := range b.subscriptions {
				if sub.SessionID != "" && sub.SessionID != event.SessionID {
					continue
				}
				if len(sub.EventTypes) > 0 && !sub.EventTypes[event.Type] {
					continue
				}
				select {
				case sub.Channel <- event:
				default:
				}
			}
			b.mu.RUnlock()

		case <-b.done:
			b.mu.Lock()
			for sub := range b.subscriptions {
				close(sub.Channel)
			}
			b.subscriptions = make(map[*Subscription]bool)
			b.mu.Unlock()
			return
		}
	}
}

// Subscribe registers a new subscription, optionally filtered by session
// id and event type.
func (b *Broadcaster) Subscribe(sessionID string, eventTypes []EventType) *Subscription {
	m := make(map[EventType]bool, len(eventTypes))
	for _, et := range eventTypes {
		m[et] = true
	}
	sub := &Subscription{
		SessionID:  sessionID,
		EventTypes: m,
		Channel:    make(chan BroadcastEvent, 64),
	}
	b.register <- sub
	return sub
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Broadcaster) Unsubscribe(sub *Subscription) { b.unregister <- sub }

// Broadcast sends an event to every matching subscription, dropping it if
// the broadcaster's internal queue is full.
func (b *Broadcaster) Broadcast(event BroadcastEvent) {
	select {
	case b.broadcast <- event:
	default:
	}
}

// BroadcastStage reports a named pipeline stage transition.
func (b *Broadcaster) BroadcastStage(sessionID, stage, status string) {
	b.Broadcast(BroadcastEvent{
		Type:      EventTypeStage,
		SessionID: sessionID,
		Data:      map[string]interface{}{"stage": stage, "status": status},
	})
}

// BroadcastDiagnostic reports a non-fatal build warning.
func (b *Broadcaster) BroadcastDiagnostic(sessionID, message string) {
	b.Broadcast(BroadcastEvent{
		Type:      EventTypeDiagnostic,
		SessionID: sessionID,
		Data:      map[string]interface{}{"message": message},
	})
}

// BroadcastComplete reports a session's build finishing.
func (b *Broadcaster) BroadcastComplete(sessionID string, ok bool, errMsg string) {
	data := map[string]interface{}{"ok": ok}
	if errMsg != "" {
		data["error"] = errMsg
	}
	b.Broadcast(BroadcastEvent{Type: EventTypeComplete, SessionID: sessionID, Data: data})
}

// Close shuts the broadcaster down, closing every live subscription.
func (b *Broadcaster) Close() { close(b.done) }

// SubscriptionCount reports the number of live subscriptions.
func (b *Broadcaster) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscriptions)
}
