// Package fetch implements the download stage: metadata probe, best-audio
// retrieval via yt-dlp, and resolution of the file the extractor produced.
package fetch
