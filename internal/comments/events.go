package comments

// EventKind tells subscribers which part of the store changed.
type EventKind int

const (
	// EventCommentsChanged is sent after the collection changed.
	EventCommentsChanged EventKind = iota + 1
	// EventErrorChanged is sent after the transient error was set or cleared.
	EventErrorChanged
)

func (k EventKind) String() string {
	switch k {
	case EventCommentsChanged:
		return "comments_changed"
	case EventErrorChanged:
		return "error_changed"
	default:
		return "unknown"
	}
}

// Event is a change notification.
type Event struct {
	Kind EventKind
}

const subscriberBuffer = 16

// Subscribe registers for change notifications. Events are hints: a
// subscriber that falls behind may miss some, so it should re-read the state
// it renders on every event it receives. The returned function unsubscribes
// and closes the channel.
func (s *Store) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Event, subscriberBuffer)
	s.subs[id] = ch

	var cancelled bool
	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if cancelled {
			return
		}
		cancelled = true
		delete(s.subs, id)
		close(ch)
	}

	return ch, cancel
}

func (s *Store) notifyLocked(kind EventKind) {
	for id, ch := range s.subs {
		select {
		case ch <- Event{Kind: kind}:
		default:
			s.log.Debug("Subscriber is behind, dropping event", "subscriber", id, "event", kind.String())
		}
	}
}
