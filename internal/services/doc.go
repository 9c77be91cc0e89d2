// Package services contains clients for the external tools lathe drives:
// yt-dlp for media extraction and ffmpeg for FLAC transcoding.
package services
