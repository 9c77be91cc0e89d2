// Package media holds the source URL validation rules and the transient
// metadata types shared across the pipeline stages.
package media
