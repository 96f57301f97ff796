package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"countdown/internal/audio"
	"countdown/internal/core/countdown"
	"countdown/internal/platform"
	"countdown/internal/storage"
	"countdown/internal/ui/display"
	"countdown/internal/ui/preferences"
	"countdown/internal/ui/tray"
	"countdown/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

const (
	appName      = "Countdown"
	displayTitle = "Countdown Timer"
)

func main() {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		log.Printf("single instance: %v", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		log.Printf("settings: %v", err)
	}

	fyneApp := app.NewWithID("com.countdown.app")
	activeIcon := resources.MustLogo("countdown.svg")
	pausedIcon := resources.MustLogo("countdown_paused.svg")
	fyneApp.SetIcon(activeIcon)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := countdown.New(settings.CountdownConfig(), countdown.SystemClock)
	defer engine.Close()

	keymap, err := settings.Keymap()
	if err != nil {
		log.Printf("keys: %v", err)
	}

	displayWindow := display.New(fyneApp, display.Config{
		Title:      displayTitle,
		Fullscreen: settings.StartFullscreen,
	}, engine, keymap)
	displayWindow.Render(engine.Snapshot())
	displayWindow.SetOnClosed(fyneApp.Quit)
	go displayWindow.Follow(ctx, engine.Subscribe(64))

	cue := newCue(settings)
	go audio.Listen(ctx, engine.Subscribe(16), cue)

	var trayManager *tray.Manager
	history := openHistory(settings)
	if history != nil {
		defer func() {
			_ = history.Close()
		}()
		go history.Record(ctx, engine.Subscribe(256), func(storage.CycleRecord) {
			summary := historySummary(ctx, history)
			fyne.Do(func() {
				if trayManager != nil {
					trayManager.SetHistory(summary)
				}
			})
		})
	}

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		settings = updated
		if err := storage.SaveSettings(appName, settings); err != nil {
			log.Printf("settings: %v", err)
		}
		engine.UpdateConfig(settings.CountdownConfig())
		displayWindow.Render(engine.Snapshot())
		cue.SetVolume(settings.AlertVolume)
		if updatedKeys, err := settings.Keymap(); err != nil {
			log.Printf("keys: %v", err)
		} else {
			displayWindow.SetKeymap(updatedKeys)
		}
	})

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, appName, tray.Callbacks{
			OnShow:        displayWindow.Show,
			OnPreferences: prefsWindow.Show,
			OnStart:       engine.Start,
			OnPause:       engine.Pause,
			OnStop:        engine.Stop,
			OnExtend:      engine.Extend,
			OnQuit:        fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(activeIcon)
		trayManager.Update(engine.Snapshot())
		if history != nil {
			trayManager.SetHistory(historySummary(ctx, history))
		}
		go followTray(ctx, engine.Subscribe(64), trayManager, desktopApp, activeIcon, pausedIcon)
	} else {
		log.Printf("system tray unsupported on this platform")
	}

	displayWindow.Show()
	fyneApp.Run()
}

func newCue(settings preferences.Settings) *audio.Cue {
	buffer := audio.Synthesize(audio.ToneFormat, audio.DefaultTone())
	if settings.AlertSound != "" {
		loaded, err := audio.LoadSound(settings.AlertSound)
		if err != nil {
			log.Printf("alert cue: %v", err)
		} else {
			buffer = loaded
		}
	}

	output, err := audio.OpenSpeaker(buffer.Format())
	if err != nil {
		log.Printf("alert cue: %v", err)
	}
	return audio.NewCue(buffer, output, settings.AlertVolume)
}

func openHistory(settings preferences.Settings) *storage.History {
	if !settings.HistoryEnabled {
		return nil
	}
	path, err := storage.HistoryPath(appName)
	if err != nil {
		log.Printf("history: %v", err)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("history: create directory: %v", err)
		return nil
	}
	history, err := storage.OpenHistory(path)
	if err != nil {
		log.Printf("history: %v", err)
		return nil
	}
	return history
}

func historySummary(ctx context.Context, history *storage.History) string {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	summary, err := history.Summary(ctx, midnight)
	if err != nil {
		log.Printf("history: %v", err)
		return "Today: unavailable"
	}
	if summary.Cycles == 0 {
		return "Today: no cycles"
	}
	return fmt.Sprintf("Today: %d cycles (%d expired, %d extended)", summary.Cycles, summary.Expired, summary.Extended)
}

func followTray(ctx context.Context, events <-chan countdown.Event, trayManager *tray.Manager, desktopApp desktop.App, activeIcon, pausedIcon fyne.Resource) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			snapshot := event.State
			stateChanged := event.Type == countdown.EventStateChange
			fyne.Do(func() {
				trayManager.Update(snapshot)
				if !stateChanged {
					return
				}
				if snapshot.Status == countdown.StatusPaused {
					desktopApp.SetSystemTrayIcon(pausedIcon)
				} else {
					desktopApp.SetSystemTrayIcon(activeIcon)
				}
			})
		}
	}
}
