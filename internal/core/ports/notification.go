package ports

// Notifier is the sink for conditions that must reach the user but are not
// part of the canonical state. Implementations decide the delivery mechanism.
type Notifier interface {
	// Warn surfaces an advisory condition.
	Warn(message string)
	// Error surfaces a failure. Implementations must silently drop canceled
	// key-manager outcomes, those are deliberate no-ops.
	Error(err error)
}
