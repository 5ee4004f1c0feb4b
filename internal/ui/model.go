// Package ui provides internal state management and rendering utilities for ephemeral terminal notifications.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultTimeout is how long a notification stays visible.
const DefaultTimeout = 3 * time.Second

// Model encapsulates the state for displaying non-blocking terminal alerts.
type Model struct {
	notification string
	notifiedAt   time.Time
	// generation discards clear messages raised by earlier notifications.
	generation int
}

// NotificationMsg carries the text of a new alert.
type NotificationMsg string

// ClearNotificationMsg is a Bubbletea message used to reset the visual notification state.
type ClearNotificationMsg struct {
	generation int
}

// Notify returns a tea.Cmd that raises an alert with the given text.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NotificationMsg(text)
	}
}

func clearNotification(generation int) tea.Cmd {
	return tea.Tick(DefaultTimeout, func(time.Time) tea.Msg {
		return ClearNotificationMsg{generation: generation}
	})
}

// Notification returns the text currently shown, if any.
func (m *Model) Notification() string {
	return m.notification
}

// Update processes incoming messages to modify the notification state.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotificationMsg:
		m.notification = string(msg)
		m.notifiedAt = time.Now()
		m.generation++
		return clearNotification(m.generation)
	case ClearNotificationMsg:
		if msg.generation == m.generation {
			m.notification = ""
		}
		return nil
	}
	return nil
}

// View injects the current notification message into the terminal view buffer.
func (m *Model) View(mainContent string) string {
	if m.notification == "" {
		return mainContent
	}

	lines := strings.Split(mainContent, "\n")
	notifier := "\033[90m" + m.notification + "\033[0m"

	if len(lines) > 0 {
		lines[len(lines)-1] = lines[len(lines)-1] + "  " + notifier
	}
	return strings.Join(lines, "\n")
}
