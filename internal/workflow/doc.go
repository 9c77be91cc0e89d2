// Package workflow orchestrates a rip from URL validation through fetch and
// transcode, holding the single instance lock for its duration.
package workflow
