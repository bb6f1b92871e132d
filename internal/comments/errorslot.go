package comments

// ShowError sets the transient error message. It is cleared after the
// configured TTL unless it was replaced in the meantime. Messages are compared
// by value, so showing the same text twice lets the first timer clear the
// second one early.
func (s *Store) ShowError(message string) {
	s.mu.Lock()
	s.errMsg = message
	s.notifyLocked(EventErrorChanged)
	s.mu.Unlock()

	s.afterFunc(s.errorTTL, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.errMsg == message {
			s.errMsg = ""
			s.notifyLocked(EventErrorChanged)
		}
	})
}

// ClearError removes the transient error message right away.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.errMsg == "" {
		return
	}
	s.errMsg = ""
	s.notifyLocked(EventErrorChanged)
}

// ErrorMessage returns the current transient error message, empty when there is none.
func (s *Store) ErrorMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.errMsg
}
