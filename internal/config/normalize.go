package config

import "strings"

// normalize expands path fields and fills empty tool settings with defaults.
func (c *Config) normalize() error {
	for _, field := range []*string{&c.Paths.DownloadDir, &c.Paths.OutputDir, &c.Paths.LogDir} {
		if strings.TrimSpace(*field) == "" {
			continue
		}
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}

	if strings.TrimSpace(c.Tools.YtDlpBinary) == "" {
		c.Tools.YtDlpBinary = defaultYtDlpBinary
	}
	if strings.TrimSpace(c.Tools.FFmpegBinary) == "" {
		c.Tools.FFmpegBinary = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	return nil
}
