package mqtt311

import "context"

// LinkMonitor abstracts the network link underneath the TCP socket,
// typically a WiFi association driver. The supervisor consults it
// before dialing and aborts in-flight socket operations when it
// reports the link lost.
type LinkMonitor interface {
	// Up reports whether the link currently carries traffic.
	Up() bool

	// WaitUp blocks until the link is associated or the context ends.
	WaitUp(ctx context.Context) error

	// Drop releases the link, e.g. powering the radio down for a
	// paused client. A no-op for permanently-connected hosts.
	Drop(ctx context.Context) error
}

// AlwaysUp is the default LinkMonitor for hosts with permanent
// connectivity: the link is always associated and cannot be dropped.
type AlwaysUp struct{}

// Up always reports true.
func (AlwaysUp) Up() bool { return true }

// WaitUp returns immediately unless the context has ended.
func (AlwaysUp) WaitUp(ctx context.Context) error { return ctx.Err() }

// Drop does nothing.
func (AlwaysUp) Drop(_ context.Context) error { return nil }
