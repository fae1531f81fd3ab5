package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"tempo/internal/core/timekeeper"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnToggle      func()
	OnReset       func()
	OnShow        func()
	OnPreferences func()
	OnQuit        func()
}

// Icons are swapped to reflect the session and pause state. Nil icons are
// skipped.
type Icons struct {
	Work   fyne.Resource
	Break  fyne.Resource
	Paused fyne.Resource
}

// trayApp is the part of desktop.App the manager needs.
type trayApp interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(icon fyne.Resource)
}

// Manager handles system tray state.
type Manager struct {
	app        trayApp
	icons      Icons
	shownIcon  fyne.Resource
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	callbacks  Callbacks
	state      timekeeper.State
	isWork     bool
	clock      string
	completed  int
}

// New creates a tray manager with the provided callbacks. A nil app (no
// desktop driver) yields a manager that only tracks state.
func New(app desktop.App, icons Icons, callbacks Callbacks) *Manager {
	manager := &Manager{
		icons:     icons,
		callbacks: callbacks,
		state:     timekeeper.StateStopped,
		isWork:    true,
		clock:     "--:--",
	}
	if app != nil {
		manager.app = app
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.toggleItem = fyne.NewMenuItem("Start", func() { call(manager.callbacks.OnToggle) })

	manager.refreshStatus()
	return manager
}

// Watch applies keeper events until the channel closes. Menu updates are
// marshalled onto the fyne goroutine.
func (manager *Manager) Watch(events <-chan timekeeper.Event) {
	for event := range events {
		event := event
		fyne.Do(func() {
			manager.Apply(event)
		})
	}
}

// Apply updates the menu from a single event. Must run on the fyne goroutine.
func (manager *Manager) Apply(event timekeeper.Event) {
	switch event.Type {
	case timekeeper.EventStateChange, timekeeper.EventIdlePause, timekeeper.EventSessionComplete, timekeeper.EventProgress:
	default:
		return
	}
	manager.state = event.State
	manager.isWork = event.IsWork
	manager.completed = event.Completed
	manager.clock = timekeeper.FormatClock(event.Remaining)
	manager.refreshStatus()
}

// Status returns the current status line.
func (manager *Manager) Status() string {
	return manager.statusItem.Label
}

// ToggleLabel returns the label of the start/pause item.
func (manager *Manager) ToggleLabel() string {
	return manager.toggleItem.Label
}

func (manager *Manager) refreshStatus() {
	status := fmt.Sprintf("%s %s", shortSession(manager.isWork), manager.clock)
	switch manager.state {
	case timekeeper.StatePaused:
		status = fmt.Sprintf("%s (paused)", status)
	case timekeeper.StateStopped:
		status = fmt.Sprintf("%s (stopped)", status)
	}
	manager.statusItem.Label = fmt.Sprintf("%s · %d done", status, manager.completed)

	switch manager.state {
	case timekeeper.StateRunning:
		manager.toggleItem.Label = "Pause"
	case timekeeper.StatePaused:
		manager.toggleItem.Label = "Resume"
	default:
		manager.toggleItem.Label = "Start"
	}
	manager.refreshMenu()
	manager.refreshIcon()
}

func (manager *Manager) refreshIcon() {
	icon := manager.icons.Work
	switch {
	case manager.state == timekeeper.StatePaused:
		icon = manager.icons.Paused
	case !manager.isWork:
		icon = manager.icons.Break
	}
	if manager.app == nil || icon == nil || icon == manager.shownIcon {
		return
	}
	manager.shownIcon = icon
	manager.app.SetSystemTrayIcon(icon)
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	quit := fyne.NewMenuItem("Quit", func() { call(manager.callbacks.OnQuit) })
	quit.IsQuit = true
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Tempo",
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		fyne.NewMenuItem("Reset", func() { call(manager.callbacks.OnReset) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show timer", func() { call(manager.callbacks.OnShow) }),
		fyne.NewMenuItem("Preferences", func() { call(manager.callbacks.OnPreferences) }),
		fyne.NewMenuItemSeparator(),
		quit,
	))
}

func shortSession(isWork bool) string {
	if isWork {
		return "Work"
	}
	return "Break"
}

func call(handler func()) {
	if handler != nil {
		handler()
	}
}
