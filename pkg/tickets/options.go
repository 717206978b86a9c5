package tickets

import "time"

// DefaultCloseDelay is how long a closed ticket stays before its channel is deleted.
const DefaultCloseDelay = 5 * time.Second

// Option configures a Manager.
type Option func(*Manager)

// WithResolvedTracker sets the tracker of resolved ticket channels.
func WithResolvedTracker(t DedupTracker) Option {
	return func(m *Manager) {
		if t != nil {
			m.resolved = t
		}
	}
}

// WithRequireFullConfig blocks ticket creation until the staff role and transcript channel are configured.
func WithRequireFullConfig(require bool) Option {
	return func(m *Manager) {
		m.requireFullConfig = require
	}
}

// WithCloseDelay sets how long a closed ticket stays before deletion.
func WithCloseDelay(d time.Duration) Option {
	return func(m *Manager) {
		m.closeDelay = d
	}
}

// WithAfterFunc sets the scheduler of delayed deletions.
func WithAfterFunc(f func(d time.Duration, fn func())) Option {
	return func(m *Manager) {
		if f != nil {
			m.afterFunc = f
		}
	}
}
