// Package notifications pushes rip progress events to an ntfy topic when one
// is configured, and drops them otherwise.
package notifications
