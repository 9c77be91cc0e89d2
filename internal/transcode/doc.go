// Package transcode implements the FLAC encoding stage.
package transcode
