package tray

import (
	"fmt"

	"countdown/internal/core/countdown"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnPreferences func()
	OnStart       func()
	OnPause       func()
	OnStop        func()
	OnExtend      func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	title       string
	statusItem  *fyne.MenuItem
	historyItem *fyne.MenuItem
	showItem    *fyne.MenuItem
	prefsItem   *fyne.MenuItem
	startItem   *fyne.MenuItem
	pauseItem   *fyne.MenuItem
	stopItem    *fyne.MenuItem
	extendItem  *fyne.MenuItem
	quitItem    *fyne.MenuItem
	callbacks   Callbacks
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, title string, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		title:     title,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: ready", nil)
	manager.statusItem.Disabled = true
	manager.historyItem = fyne.NewMenuItem("Today: no cycles", nil)
	manager.historyItem.Disabled = true

	manager.showItem = fyne.NewMenuItem("Show timer", invoke(callbacks.OnShow))
	manager.prefsItem = fyne.NewMenuItem("Preferences", invoke(callbacks.OnPreferences))
	manager.startItem = fyne.NewMenuItem("Start", invoke(callbacks.OnStart))
	manager.pauseItem = fyne.NewMenuItem("Pause", invoke(callbacks.OnPause))
	manager.pauseItem.Disabled = true
	manager.stopItem = fyne.NewMenuItem("Stop", invoke(callbacks.OnStop))
	manager.extendItem = fyne.NewMenuItem("Extend", invoke(callbacks.OnExtend))
	manager.quitItem = fyne.NewMenuItem("Quit", invoke(callbacks.OnQuit))
	manager.quitItem.IsQuit = true

	manager.refreshMenu()
	return manager
}

// Update mirrors the engine state in the menu.
func (manager *Manager) Update(snapshot countdown.Snapshot) {
	manager.startItem.Disabled = !snapshot.CanStart()
	manager.pauseItem.Disabled = !snapshot.CanPause()
	manager.extendItem.Disabled = !snapshot.CanExtend()
	if snapshot.Status == countdown.StatusPaused {
		manager.startItem.Label = "Resume"
	} else {
		manager.startItem.Label = "Start"
	}
	manager.statusItem.Label = fmt.Sprintf("Status: %s, %ds left", snapshot.Status, snapshot.Remaining)
	manager.refreshMenu()
}

// SetHistory updates the daily summary line.
func (manager *Manager) SetHistory(summary string) {
	manager.historyItem.Label = summary
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu(manager.title,
		manager.statusItem,
		manager.historyItem,
		fyne.NewMenuItemSeparator(),
		manager.showItem,
		manager.startItem,
		manager.pauseItem,
		manager.stopItem,
		manager.extendItem,
		fyne.NewMenuItemSeparator(),
		manager.prefsItem,
		manager.quitItem,
	))
}

func invoke(callback func()) func() {
	return func() {
		if callback != nil {
			callback()
		}
	}
}
