package app

import "time"

// TickMsg triggers a frame: the fade overlay and a display refresh.
type TickMsg time.Time

// ReportMsg triggers the periodic stats log line.
type ReportMsg time.Time

// ExportedMsg reports the result of a PNG export.
type ExportedMsg struct {
	Path string
	Err  error
}
