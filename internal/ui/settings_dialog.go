package ui

import (
	"sort"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/hf-downloader/internal/config"
	"github.com/ytget/hf-downloader/internal/engine"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	window       fyne.Window
	localization *Localization
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	downloadDirEntry *widget.Entry
	enginePathEntry  *widget.Entry
	connectionsEntry *widget.Entry
	endpointEntry    *widget.Entry
	tokenEntry       *widget.Entry
	revisionEntry    *widget.Entry
	languageSelect   *widget.Select
	autoRevealCheck  *widget.Check
}

// NewSettingsDialog creates a new settings dialog; onSaved runs after values are stored
func NewSettingsDialog(settings *config.Settings, window fyne.Window, localization *Localization, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		window:       window,
		localization: localization,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) createUI() {
	text := sd.localization.GetText

	sd.downloadDirEntry = widget.NewEntry()
	sd.downloadDirEntry.SetPlaceHolder("Download directory path")
	browseDirBtn := widget.NewButton(text(KeyBrowse), sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	sd.enginePathEntry = widget.NewEntry()
	sd.enginePathEntry.SetPlaceHolder("aria2c (PATH or next to the app)")
	browseEngineBtn := widget.NewButton(text(KeyBrowse), sd.onBrowseEngine)
	engineRow := container.NewBorder(nil, nil, nil, browseEngineBtn, sd.enginePathEntry)

	sd.connectionsEntry = widget.NewEntry()
	sd.connectionsEntry.SetPlaceHolder("1-" + strconv.Itoa(engine.MaxConnections))

	sd.endpointEntry = widget.NewEntry()
	sd.endpointEntry.SetPlaceHolder("https://huggingface.co")

	sd.tokenEntry = widget.NewPasswordEntry()
	sd.tokenEntry.SetPlaceHolder("hf_...")

	sd.revisionEntry = widget.NewEntry()
	sd.revisionEntry.SetPlaceHolder("main")

	languageOptions := []string{}
	for code := range sd.settings.GetLanguageOptions() {
		languageOptions = append(languageOptions, code)
	}
	sort.Strings(languageOptions)
	sd.languageSelect = widget.NewSelect(languageOptions, nil)
	sd.languageSelect.PlaceHolder = "Select language"

	sd.autoRevealCheck = widget.NewCheck(text(KeyAutoReveal), nil)

	form := container.NewVBox(
		widget.NewLabel(text(KeyDownloadDirectory)+":"),
		downloadDirRow,

		widget.NewLabel(text(KeyEnginePath)+":"),
		engineRow,

		widget.NewLabel(text(KeyConnections)+":"),
		sd.connectionsEntry,

		widget.NewSeparator(),

		widget.NewLabel(text(KeyEndpoint)+":"),
		sd.endpointEntry,

		widget.NewLabel(text(KeyToken)+":"),
		sd.tokenEntry,

		widget.NewLabel(text(KeyRevision)+":"),
		sd.revisionEntry,

		widget.NewSeparator(),

		widget.NewLabel(text(KeyLanguage)+":"),
		sd.languageSelect,
		sd.autoRevealCheck,
	)

	sd.dialog = dialog.NewCustomConfirm(
		text(KeySettings),
		text(KeySave),
		text(KeyCancel),
		container.NewVScroll(form),
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogW, SettingsDialogH))
}

func (sd *SettingsDialog) loadCurrentSettings() {
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.enginePathEntry.SetText(sd.settings.GetEnginePath())
	sd.connectionsEntry.SetText(strconv.Itoa(sd.settings.GetConnections()))
	sd.endpointEntry.SetText(sd.settings.GetEndpoint())
	sd.tokenEntry.SetText(sd.settings.GetToken())
	sd.revisionEntry.SetText(sd.settings.GetRevision())
	sd.languageSelect.SetSelected(sd.settings.GetLanguage())
	sd.autoRevealCheck.SetChecked(sd.settings.GetAutoRevealOnComplete())
}

func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

func (sd *SettingsDialog) onBrowseEngine() {
	dialog.ShowFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil || r == nil {
			return
		}
		defer r.Close()
		sd.enginePathEntry.SetText(r.URI().Path())
	}, sd.window)
}

func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.apply()
	dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeySettingsSaved), sd.window)
}

// apply stores the form values; unparsable numbers keep the previous setting
func (sd *SettingsDialog) apply() {
	if dir := sd.downloadDirEntry.Text; dir != "" {
		sd.settings.SetDownloadDirectory(dir)
	}

	sd.settings.SetEnginePath(sd.enginePathEntry.Text)

	if n, err := strconv.Atoi(sd.connectionsEntry.Text); err == nil {
		sd.settings.SetConnections(n)
	}

	sd.settings.SetEndpoint(sd.endpointEntry.Text)
	sd.settings.SetToken(sd.tokenEntry.Text)
	sd.settings.SetRevision(sd.revisionEntry.Text)

	if sd.languageSelect.Selected != "" {
		sd.settings.SetLanguage(sd.languageSelect.Selected)
	}
	sd.settings.SetAutoRevealOnComplete(sd.autoRevealCheck.Checked)

	if sd.onSaved != nil {
		sd.onSaved()
	}
}
