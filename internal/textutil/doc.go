// Package textutil provides filename sanitization helpers shared by the
// fetch pipeline.
package textutil
