package preferences

import (
	"fmt"
	"log"
	"strconv"

	"countdown/internal/input"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window     fyne.Window
	settings   Settings
	onSave     func(Settings)
	duration   *widget.Entry
	threshold  *widget.Entry
	sound      *widget.Entry
	volume     *widget.Slider
	fullscreen *widget.Check
	history    *widget.Check
	keyEntries map[string]*widget.Entry
}

var commandOrder = []string{"start", "stop", "pause", "extend"}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Countdown Settings")

	duration := widget.NewEntry()
	threshold := widget.NewEntry()
	sound := widget.NewEntry()
	sound.SetPlaceHolder("built-in tone (or path to .wav/.mp3)")

	volume := widget.NewSlider(minVolume, maxVolume)
	volume.Step = 0.05

	fullscreen := widget.NewCheck("Start in fullscreen", nil)
	history := widget.NewCheck("Keep cycle history", nil)

	keyEntries := make(map[string]*widget.Entry, len(commandOrder))
	keyRows := container.NewVBox()
	for _, command := range commandOrder {
		entry := widget.NewEntry()
		keyEntries[command] = entry
		keyRows.Add(container.NewGridWithColumns(2, widget.NewLabel(command), entry))
	}

	form := container.NewVBox(
		widget.NewLabelWithStyle("Countdown", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Duration"), duration, widget.NewLabel("sec")),
		container.NewHBox(widget.NewLabel("Alert at"), threshold, widget.NewLabel("sec left")),
		widget.NewLabelWithStyle("Alert sound", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		sound,
		widget.NewLabel("Volume"),
		volume,
		widget.NewLabelWithStyle("Keys", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		keyRows,
		fullscreen,
		history,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 520))

	prefs := &Window{
		window:     window,
		onSave:     onSave,
		duration:   duration,
		threshold:  threshold,
		sound:      sound,
		volume:     volume,
		fullscreen: fullscreen,
		history:    history,
		keyEntries: keyEntries,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	}
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.duration.SetText(fmt.Sprintf("%d", settings.Duration))
	prefs.threshold.SetText(fmt.Sprintf("%d", settings.AlertThreshold))
	prefs.sound.SetText(settings.AlertSound)
	prefs.volume.Value = settings.AlertVolume
	prefs.volume.Refresh()
	prefs.fullscreen.SetChecked(settings.StartFullscreen)
	prefs.history.SetChecked(settings.HistoryEnabled)

	keysByCommand := make(map[string]string, len(settings.Keys))
	for key, command := range settings.Keys {
		keysByCommand[command] = key
	}
	for command, entry := range prefs.keyEntries {
		entry.SetText(keysByCommand[command])
	}
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	duration, _ := parsePositiveInt(prefs.duration.Text)
	threshold, _ := parsePositiveInt(prefs.threshold.Text)
	if timed, ok := settings.WithTiming(duration, threshold); ok {
		settings = timed
	} else {
		log.Printf("preferences: alert at %s sec must be below duration %s sec", prefs.threshold.Text, prefs.duration.Text)
	}
	settings.AlertSound = prefs.sound.Text
	if ValidVolume(prefs.volume.Value) {
		settings.AlertVolume = prefs.volume.Value
	}
	settings.StartFullscreen = prefs.fullscreen.Checked
	settings.HistoryEnabled = prefs.history.Checked

	keys := make(map[string]string, len(prefs.keyEntries))
	for command, entry := range prefs.keyEntries {
		if key := input.NormalizeKey(entry.Text); key != "" {
			keys[key] = command
		}
	}
	if len(keys) > 0 {
		settings.Keys = keys
	}

	prefs.UpdateSettings(settings)
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
