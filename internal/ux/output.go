// Package ux provides terminal styling and time formatting for ghist output.
package ux

import (
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	ColorAccent  = lipgloss.Color("#20B9B4")
	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
	ColorMuted   = lipgloss.Color("245")
)

// Styles are the pre-configured lipgloss styles.
var Styles = struct {
	Title   lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Key     lipgloss.Style
	Box     lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(ColorAccent),
	Bold:    lipgloss.NewStyle().Bold(true),
	Muted:   lipgloss.NewStyle().Foreground(ColorMuted),
	Success: lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning: lipgloss.NewStyle().Foreground(ColorWarning),
	Error:   lipgloss.NewStyle().Foreground(ColorError),
	Key:     lipgloss.NewStyle().Foreground(ColorAccent),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorMuted).
		Padding(0, 1),
}

type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconBullet  Icon = "•"
	IconArrow   Icon = "→"
)

// Render returns the icon with its status color.
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	case IconBullet, IconArrow:
		return Styles.Muted.Render(string(i))
	default:
		return string(i)
	}
}

const (
	TimestampFormat = "Jan 2, 2006, 3:04:05 PM"
	ClockFormat     = "15:04:05"
	DateFormat      = "Jan 2, 2006"
)

var relMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "just now"},
	{D: time.Hour, Format: "%dm %s", DivBy: time.Minute},
	{D: humanize.Day, Format: "%dh %s", DivBy: time.Hour},
	{D: 30 * humanize.Day, Format: "%dd %s", DivBy: humanize.Day},
	{D: math.MaxInt64, Format: "%dd %s", DivBy: humanize.Day},
}

// Relative renders t against now as "just now", "5m ago", "3h ago" or
// "12d ago". Anything 30 days or older is shown as a date.
func Relative(t, now time.Time) string {
	if now.Sub(t) >= 30*humanize.Day {
		return t.Local().Format(DateFormat)
	}
	if t.After(now) {
		return "just now"
	}
	return humanize.CustomRelTime(t, now, "ago", "", relMagnitudes)
}

// Timestamp renders t in local time with seconds.
func Timestamp(t time.Time) string {
	return t.Local().Format(TimestampFormat)
}

// Size renders a byte count.
func Size(n int) string {
	return humanize.Bytes(uint64(n))
}

// Files renders "1 file" or "N files".
func Files(n int) string {
	if n == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%s files", humanize.Comma(int64(n)))
}

// RelPath shortens path against root for display. Paths outside root are
// returned unchanged.
func RelPath(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || filepath.IsAbs(rel) || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator) {
		return path
	}
	return filepath.ToSlash(rel)
}
