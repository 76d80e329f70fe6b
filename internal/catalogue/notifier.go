package catalogue

import (
	"sync"
	"time"

	"github.com/lushplayer/catalogue/internal/models"
)

// RefreshEvent announces that the programme list for a media type was
// refreshed. Observers typically redraw their listings.
type RefreshEvent struct {
	Media models.Media
	Count int
	At    time.Time
}

// Notifier fans refresh events out to subscribers over buffered channels.
// Publishing never blocks: a subscriber that has fallen behind misses events
// rather than stalling fetches.
type Notifier struct {
	mu   sync.Mutex
	subs []chan RefreshEvent
}

// NewNotifier creates a notifier with no subscribers.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers a new subscriber channel.
func (n *Notifier) Subscribe() <-chan RefreshEvent {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(chan RefreshEvent, 8)
	n.subs = append(n.subs, ch)
	return ch
}

// Unsubscribe removes a subscriber channel and closes it.
func (n *Notifier) Unsubscribe(sub <-chan RefreshEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, ch := range n.subs {
		if ch == sub {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			close(ch)
			return
		}
	}
}

// Publish delivers an event to every subscriber that has buffer room.
func (n *Notifier) Publish(event RefreshEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
