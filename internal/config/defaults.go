package config

const (
	defaultDownloadDir      = "~/.local/share/lathe/downloads"
	defaultOutputDir        = "~/.local/share/lathe/flac"
	defaultLogDir           = "~/.local/share/lathe/logs"
	defaultYtDlpBinary      = "yt-dlp"
	defaultFFmpegBinary     = "ffmpeg"
	defaultCompressionLevel = 8
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultNotifyTimeout    = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir: defaultDownloadDir,
			OutputDir:   defaultOutputDir,
			LogDir:      defaultLogDir,
		},
		Tools: Tools{
			YtDlpBinary:      defaultYtDlpBinary,
			FFmpegBinary:     defaultFFmpegBinary,
			CompressionLevel: defaultCompressionLevel,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Fetch:          true,
			Transcode:      true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
