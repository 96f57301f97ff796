package display

import (
	"context"
	"fmt"
	"image/color"

	"countdown/internal/core/countdown"
	"countdown/internal/core/model"
	"countdown/internal/input"
	"countdown/internal/ui/animation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Config defines display visuals.
type Config struct {
	Title      string
	Fullscreen bool
}

var (
	backgroundColor = color.NRGBA{R: 33, G: 37, B: 41, A: 255}
	normalColor     = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	criticalColor   = color.NRGBA{R: 220, G: 53, B: 69, A: 255}
	flashColor      = color.NRGBA{R: 255, G: 193, B: 7, A: 255}
)

// Window renders the countdown and routes buttons and keys to the engine.
type Window struct {
	window       fyne.Window
	config       Config
	commander    input.Commander
	keymap       input.Keymap
	background   *canvas.Rectangle
	titleLabel   *canvas.Text
	timerLabel   *canvas.Text
	statusLabel  *canvas.Text
	startButton  *widget.Button
	stopButton   *widget.Button
	pauseButton  *widget.Button
	extendButton *widget.Button
	screenButton *widget.Button
	flasher      *animation.Flasher
	snapshot     countdown.Snapshot
}

// New creates the countdown window.
func New(app fyne.App, config Config, commander input.Commander, keymap input.Keymap) *Window {
	window := app.NewWindow(config.Title)
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	background := canvas.NewRectangle(backgroundColor)

	titleLabel := canvas.NewText(config.Title, normalColor)
	titleLabel.Alignment = fyne.TextAlignCenter
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.TextSize = 32

	timerLabel := canvas.NewText("--s", normalColor)
	timerLabel.Alignment = fyne.TextAlignCenter
	timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timerLabel.TextSize = 120

	statusLabel := canvas.NewText("", normalColor)
	statusLabel.Alignment = fyne.TextAlignCenter
	statusLabel.TextSize = 16

	display := &Window{
		window:      window,
		config:      config,
		commander:   commander,
		keymap:      keymap,
		background:  background,
		titleLabel:  titleLabel,
		timerLabel:  timerLabel,
		statusLabel: statusLabel,
	}

	display.startButton = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), commander.Start)
	display.startButton.Importance = widget.HighImportance
	display.stopButton = widget.NewButtonWithIcon("Stop", theme.MediaStopIcon(), commander.Stop)
	display.stopButton.Importance = widget.DangerImportance
	display.pauseButton = widget.NewButtonWithIcon("Pause", theme.MediaPauseIcon(), commander.Pause)
	display.pauseButton.Importance = widget.WarningImportance
	display.extendButton = widget.NewButtonWithIcon(extensionLabel(model.DefaultDuration), theme.ContentAddIcon(), commander.Extend)
	display.extendButton.Importance = widget.SuccessImportance
	display.screenButton = widget.NewButtonWithIcon("Full Screen", theme.ViewFullScreenIcon(), display.ToggleFullscreen)

	display.flasher = animation.New(animation.DefaultConfig(), func(on bool) {
		fyne.Do(func() {
			display.applyFlash(on)
		})
	})

	buttons := container.NewHBox(
		layout.NewSpacer(),
		display.startButton,
		display.stopButton,
		display.pauseButton,
		display.extendButton,
		layout.NewSpacer(),
	)
	content := container.NewVBox(
		layout.NewSpacer(),
		titleLabel,
		timerLabel,
		statusLabel,
		buttons,
		container.NewCenter(display.screenButton),
		layout.NewSpacer(),
	)
	window.SetContent(container.NewStack(background, container.NewPadded(content)))
	window.Canvas().SetOnTypedKey(display.handleKey)
	window.Resize(fyne.NewSize(640, 480))
	window.SetFullScreen(config.Fullscreen)

	return display
}

// Show displays the window.
func (display *Window) Show() {
	display.window.Show()
	display.window.RequestFocus()
}

// SetOnClosed sets the close handler.
func (display *Window) SetOnClosed(handler func()) {
	display.window.SetOnClosed(handler)
}

// SetKeymap replaces the keyboard bindings.
func (display *Window) SetKeymap(keymap input.Keymap) {
	display.keymap = keymap
}

// ToggleFullscreen switches the display surface in and out of fullscreen.
func (display *Window) ToggleFullscreen() {
	display.config.Fullscreen = !display.window.FullScreen()
	display.window.SetFullScreen(display.config.Fullscreen)
}

// Render updates labels and button states. Must run on the UI goroutine.
func (display *Window) Render(snapshot countdown.Snapshot) {
	display.snapshot = snapshot
	display.timerLabel.Text = formatRemaining(snapshot.Remaining)
	display.timerLabel.Color = remainingColor(snapshot)
	display.timerLabel.Refresh()

	display.statusLabel.Text = statusText(snapshot)
	display.statusLabel.Refresh()

	display.extendButton.SetText(extensionLabel(snapshot.Extension))
	setEnabled(display.startButton, snapshot.CanStart())
	setEnabled(display.pauseButton, snapshot.CanPause())
	setEnabled(display.extendButton, snapshot.CanExtend())
}

// Follow renders engine events until ctx is done or events is closed.
func (display *Window) Follow(ctx context.Context, events <-chan countdown.Event) {
	defer display.flasher.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			switch event.Type {
			case countdown.EventAlertTrigger:
				display.flasher.Start(ctx)
			case countdown.EventAlertStop, countdown.EventExpired:
				display.flasher.Stop()
			}
			snapshot := event.State
			fyne.Do(func() {
				display.Render(snapshot)
			})
		}
	}
}

func (display *Window) handleKey(event *fyne.KeyEvent) {
	if display.keymap == nil || display.commander == nil {
		return
	}
	display.keymap.Dispatch(string(event.Name), display.commander)
}

func (display *Window) applyFlash(on bool) {
	if on {
		display.timerLabel.Color = flashColor
	} else {
		display.timerLabel.Color = remainingColor(display.snapshot)
	}
	display.timerLabel.Refresh()
}

func setEnabled(button *widget.Button, enabled bool) {
	if enabled {
		button.Enable()
		return
	}
	button.Disable()
}

func formatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%ds", seconds)
}

func extensionLabel(seconds int) string {
	return fmt.Sprintf("Extension +%ds", seconds)
}

func remainingColor(snapshot countdown.Snapshot) color.Color {
	if snapshot.Critical() {
		return criticalColor
	}
	return normalColor
}

func statusText(snapshot countdown.Snapshot) string {
	switch snapshot.Status {
	case countdown.StatusRunning:
		return "Running"
	case countdown.StatusPaused:
		return "Paused"
	case countdown.StatusExpired:
		return "Time's up"
	default:
		if snapshot.ExtensionUsed {
			return "Ready (extended)"
		}
		return "Ready"
	}
}
