package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/ytget/hf-downloader/internal/config"
	"github.com/ytget/hf-downloader/internal/download"
	"github.com/ytget/hf-downloader/internal/hub"
	"github.com/ytget/hf-downloader/internal/logging"
	"github.com/ytget/hf-downloader/internal/manifest"
	"github.com/ytget/hf-downloader/internal/model"
	"github.com/ytget/hf-downloader/internal/platform"
)

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	svc          download.Orchestrator
	settings     *config.Settings
	localization *Localization
	log          zerolog.Logger

	// newLister builds the Hub client for each load
	newLister func(hub.Options) hub.Lister
	// reveal opens a finished job's folder
	reveal func(dir string) error

	repoLabel    *widget.Label
	repoEntry    *widget.Entry
	datasetCheck *widget.Check
	loadBtn      *widget.Button
	settingsBtn  *widget.Button

	destLabel *widget.Label
	destEntry *widget.Entry
	browseBtn *widget.Button
	rateCheck *widget.Check
	rateEntry *widget.Entry

	fileList *FileList
	logPanel *LogPanel
	logLabel *widget.Label

	progress      *widget.ProgressBar
	progressLabel *widget.Label
	startBtn      *widget.Button
	stopBtn       *widget.Button
	openBtn       *widget.Button
	saveSelBtn    *widget.Button
	loadSelBtn    *widget.Button

	dataset    bool // the loaded listing is a dataset
	lastFolder string
	state      model.SessionState
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, svc download.Orchestrator) *RootUI {
	settings := config.NewSettings(app)

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		svc:          svc,
		settings:     settings,
		localization: localization,
		log:          logging.Component("ui"),
		newLister:    func(opts hub.Options) hub.Lister { return hub.NewClient(opts) },
		reveal:       platform.OpenFolder,
		state:        svc.State(),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))

	ui.svc.SetUpdateCallback(ui.onUpdate)

	ui.setupUI()
	ui.refreshControls(ui.state)

	window.SetCloseIntercept(ui.onClose)
	return ui
}

func (ui *RootUI) setupUI() {
	ui.createMenu()
	text := ui.localization.GetText

	ui.repoLabel = widget.NewLabel(text(KeyRepository))
	ui.repoEntry = widget.NewEntry()
	ui.repoEntry.SetPlaceHolder(RepoPlaceholder)
	ui.repoEntry.OnSubmitted = func(string) { ui.onLoadClick() }
	ui.datasetCheck = widget.NewCheck(text(KeyDataset), nil)
	ui.loadBtn = widget.NewButtonWithIcon(text(KeyLoad), theme.ViewRefreshIcon(), ui.onLoadClick)
	ui.loadBtn.Importance = widget.HighImportance
	ui.settingsBtn = widget.NewButton(IconSettings, ui.onShowSettings)
	ui.settingsBtn.Importance = widget.LowImportance
	repoRow := container.NewBorder(nil, nil, ui.repoLabel,
		container.NewHBox(ui.datasetCheck, ui.loadBtn, ui.settingsBtn), ui.repoEntry)

	ui.destLabel = widget.NewLabel(text(KeyDestination))
	ui.destEntry = widget.NewEntry()
	ui.destEntry.SetText(ui.settings.GetDownloadDirectory())
	ui.browseBtn = widget.NewButtonWithIcon(text(KeyBrowse), theme.FolderOpenIcon(), ui.onBrowseDestination)
	destRow := container.NewBorder(nil, nil, ui.destLabel, ui.browseBtn, ui.destEntry)

	ui.rateEntry = widget.NewEntry()
	ui.rateEntry.SetPlaceHolder(RatePlaceholder)
	ui.rateEntry.SetText(ui.settings.GetRateLimit())
	ui.rateEntry.Validator = func(s string) error {
		_, err := download.NormalizeRateLimit(s)
		return err
	}
	ui.rateCheck = widget.NewCheck(text(KeyRateLimit), nil)
	ui.rateCheck.SetChecked(ui.settings.GetRateLimitEnabled())
	ui.rateCheck.OnChanged = func(bool) { ui.refreshControls(ui.state) }
	rateRow := container.NewHBox(ui.rateCheck,
		container.NewGridWrap(fyne.NewSize(RateEntryWidth, ui.rateEntry.MinSize().Height), ui.rateEntry),
		widget.NewLabel("/s"))

	top := container.NewVBox(repoRow, destRow, rateRow, widget.NewSeparator())

	ui.fileList = NewFileList(ui.localization, ui.showError)
	ui.logPanel = NewLogPanel()
	ui.logLabel = widget.NewLabelWithStyle(text(KeyStatusLog), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	logBox := container.NewBorder(ui.logLabel, nil, nil, nil, ui.logPanel.Container())

	split := container.NewVSplit(ui.fileList.Container(), logBox)
	split.SetOffset(0.7)

	ui.progress = widget.NewProgressBar()
	ui.progressLabel = widget.NewLabel(DashPlaceholder)
	ui.progressLabel.Truncation = fyne.TextTruncateEllipsis

	ui.startBtn = widget.NewButtonWithIcon(text(KeyStart), theme.MediaPlayIcon(), ui.onStartClick)
	ui.startBtn.Importance = widget.HighImportance
	ui.stopBtn = widget.NewButtonWithIcon(text(KeyStop), theme.MediaStopIcon(), ui.onStopClick)
	ui.openBtn = widget.NewButtonWithIcon(text(KeyOpenFolder), theme.FolderIcon(), ui.onOpenFolder)
	ui.saveSelBtn = widget.NewButtonWithIcon(text(KeySaveSelection), theme.DocumentSaveIcon(), ui.onSaveSelection)
	ui.loadSelBtn = widget.NewButtonWithIcon(text(KeyLoadSelection), theme.FileIcon(), ui.onLoadSelection)

	actions := container.NewHBox(ui.saveSelBtn, ui.loadSelBtn, ui.openBtn, ui.startBtn, ui.stopBtn)
	bottom := container.NewVBox(ui.progress, container.NewBorder(nil, nil, nil, actions, ui.progressLabel))

	ui.window.SetContent(container.NewBorder(top, bottom, nil, nil, split))
}

func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		item := fyne.NewMenuItem(name, func() { ui.onLanguageChange(langCode) })
		item.Checked = langCode == ui.localization.GetCurrentLanguage()
		languageMenu.Items = append(languageMenu.Items, item)
	}
	languageItem := fyne.NewMenuItem(ui.localization.GetText(KeyLanguage), nil)
	languageItem.ChildMenu = languageMenu

	fileMenu := fyne.NewMenu(ui.localization.GetText(KeyAppTitle),
		fyne.NewMenuItem(ui.localization.GetText(KeySaveSelection), ui.onSaveSelection),
		fyne.NewMenuItem(ui.localization.GetText(KeyLoadSelection), ui.onLoadSelection),
		fyne.NewMenuItemSeparator(),
		settingsItem,
		languageItem,
	)
	ui.window.SetMainMenu(fyne.NewMainMenu(fileMenu))
}

func (ui *RootUI) onLanguageChange(langCode string) {
	ui.settings.SetLanguage(langCode)
	ui.localization.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts reapplies localized labels after a language change
func (ui *RootUI) refreshUITexts() {
	text := ui.localization.GetText
	ui.window.SetTitle(text(KeyAppTitle))
	ui.repoLabel.SetText(text(KeyRepository))
	ui.datasetCheck.Text = text(KeyDataset)
	ui.datasetCheck.Refresh()
	ui.loadBtn.SetText(text(KeyLoad))
	ui.destLabel.SetText(text(KeyDestination))
	ui.browseBtn.SetText(text(KeyBrowse))
	ui.rateCheck.Text = text(KeyRateLimit)
	ui.rateCheck.Refresh()
	ui.logLabel.SetText(text(KeyStatusLog))
	ui.stopBtn.SetText(text(KeyStop))
	ui.openBtn.SetText(text(KeyOpenFolder))
	ui.saveSelBtn.SetText(text(KeySaveSelection))
	ui.loadSelBtn.SetText(text(KeyLoadSelection))
	ui.fileList.allBtn.SetText(text(KeySelectAll))
	ui.fileList.noneBtn.SetText(text(KeySelectNone))
	ui.fileList.invertBtn.SetText(text(KeyInvert))
	ui.fileList.matchBtn.SetText(text(KeySelectMatching))
	ui.fileList.unmatchBtn.SetText(text(KeyDeselectMatching))
	ui.refreshControls(ui.state)
}

func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.window, ui.localization, func() {
		ui.destEntry.SetText(ui.settings.GetDownloadDirectory())
		ui.localization.SetLanguage(ui.settings.GetLanguage())
		ui.refreshUITexts()
		ui.createMenu()
	}).Show()
}

func (ui *RootUI) onBrowseDestination() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		ui.destEntry.SetText(uri.Path())
	}, ui.window)
}

func (ui *RootUI) onLoadClick() {
	input := strings.TrimSpace(ui.repoEntry.Text)
	if input == "" {
		ui.showError(errors.New(ui.localization.GetText(KeyPleaseEnterRepo)))
		return
	}
	repo, err := model.ParseRepoID(input)
	if err != nil {
		ui.showError(err)
		return
	}

	ui.dataset = ui.datasetCheck.Checked
	ui.svc.SetLister(ui.newLister(ui.settings.HubOptions(ui.dataset)))
	ui.loadBtn.Disable()

	go func() {
		if err := ui.svc.LoadRepository(context.Background(), repo); err != nil {
			ui.log.Warn().Err(err).Str("repo", repo.String()).Msg("Load failed")
			fyne.Do(func() {
				ui.showError(err)
				ui.refreshControls(ui.svc.State())
			})
		}
	}()
}

// onStartClick toggles between start, pause and resume
func (ui *RootUI) onStartClick() {
	var err error
	switch ui.svc.State() {
	case model.StateDownloading:
		err = ui.svc.Pause()
	case model.StatePaused:
		err = ui.svc.Resume()
	default:
		err = ui.startDownload()
	}
	if err != nil {
		ui.reportError(err)
	}
}

func (ui *RootUI) startDownload() error {
	dest := strings.TrimSpace(ui.destEntry.Text)
	rate := ""
	if ui.rateCheck.Checked {
		rate = ui.rateEntry.Text
	}

	if dest != "" {
		ui.settings.SetDownloadDirectory(dest)
	}
	ui.settings.SetRateLimitEnabled(ui.rateCheck.Checked)
	if _, err := download.NormalizeRateLimit(ui.rateEntry.Text); err == nil {
		ui.settings.SetRateLimit(ui.rateEntry.Text)
	}

	return ui.svc.StartDownload(download.StartOptions{
		Destination: dest,
		RateLimit:   rate,
		Connections: ui.settings.GetConnections(),
		Token:       ui.settings.GetToken(),
		EnginePath:  ui.settings.GetEnginePath(),
	})
}

// onStopClick stops off the UI goroutine since Stop waits for the engine to exit
func (ui *RootUI) onStopClick() {
	ui.stopBtn.Disable()
	go func() {
		if err := ui.svc.Stop(); err != nil {
			fyne.Do(func() { ui.reportError(err) })
		}
	}()
}

func (ui *RootUI) onOpenFolder() {
	if ui.lastFolder == "" {
		return
	}
	if err := ui.reveal(ui.lastFolder); err != nil {
		ui.showError(err)
	}
}

func (ui *RootUI) onSaveSelection() {
	sel := ui.svc.Selection()
	if sel == nil {
		return
	}
	repo := ui.svc.Repo()
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			ui.showError(err)
			return
		}
		if w == nil {
			return
		}
		defer w.Close()
		if err := ui.writeSelection(w, repo, sel); err != nil {
			ui.reportError(err)
			return
		}
		ui.logPanel.Append(fmt.Sprintf(ui.localization.GetText(KeySelectionSaved), w.URI().Path()))
	}, ui.window)
	d.SetFileName(repo.ShortName() + ".yaml")
	d.Show()
}

func (ui *RootUI) writeSelection(w io.Writer, repo model.RepoID, sel *model.Selection) error {
	data, err := manifest.Encode(manifest.FromSelection(repo, ui.settings.GetRevision(), ui.dataset, sel))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (ui *RootUI) onLoadSelection() {
	if ui.svc.Selection() == nil {
		return
	}
	dialog.ShowFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			ui.showError(err)
			return
		}
		if r == nil {
			return
		}
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			ui.reportError(err)
			return
		}
		if err := ui.applySelection(data); err != nil {
			ui.reportError(err)
		}
	}, ui.window)
}

// applySelection selects exactly the files of a manifest in the current listing
func (ui *RootUI) applySelection(data []byte) error {
	sel := ui.svc.Selection()
	if sel == nil {
		return download.ErrNothingSelected
	}
	m, err := manifest.Parse(data)
	if err != nil {
		return err
	}
	missing, err := m.Apply(ui.svc.Repo(), sel)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		ui.logPanel.Append(fmt.Sprintf(ui.localization.GetText(KeyMissingFiles), len(missing)))
	}
	ui.fileList.Refresh()
	return nil
}

// onUpdate receives service updates from any goroutine
func (ui *RootUI) onUpdate(u download.Update) {
	fyne.Do(func() { ui.applyUpdate(u) })
}

func (ui *RootUI) applyUpdate(u download.Update) {
	switch u.Kind {
	case download.UpdateState:
		if u.Job != nil {
			ui.showJob(*u.Job)
		}
		ui.refreshControls(u.State)
		switch u.State {
		case model.StateFinished:
			ui.progress.SetValue(1)
			if ui.settings.GetAutoRevealOnComplete() && u.Job != nil {
				if err := ui.reveal(u.Job.Folder); err != nil {
					ui.log.Warn().Err(err).Str("folder", u.Job.Folder).Msg("Open folder failed")
				}
			}
		case model.StateFailed:
			if u.Err != nil {
				ui.showError(u.Err)
			}
		case model.StateListing, model.StateReady, model.StateIdle:
			ui.progress.SetValue(0)
			ui.progressLabel.SetText(DashPlaceholder)
		}
	case download.UpdateListing:
		ui.fileList.SetSelection(ui.svc.Selection())
		ui.refreshControls(u.State)
	case download.UpdateProgress:
		if u.Job != nil {
			ui.showJob(*u.Job)
		}
	case download.UpdateLog:
		if u.Message != "" {
			ui.logPanel.Append(u.Message)
		}
	}
}

func (ui *RootUI) showJob(job model.DownloadJob) {
	ui.lastFolder = job.Folder
	ui.progress.SetValue(float64(job.Percent) / 100)

	parts := []string{fmt.Sprintf("%d/%d", min(job.Completed()+1, job.Total()), job.Total())}
	if job.CurrentFile != "" {
		parts = append(parts, fmt.Sprintf("%s "+ProgressLabelFormat, job.CurrentFile, job.FilePercent))
	}
	if job.Speed != "" {
		parts = append(parts, job.Speed)
	}
	if job.ETASec >= 0 {
		parts = append(parts, job.GetETAString())
	}
	ui.progressLabel.SetText(strings.Join(parts, MiddleDotSeparator))
}

// refreshControls enables widgets for the given session state
func (ui *RootUI) refreshControls(state model.SessionState) {
	ui.state = state
	text := ui.localization.GetText
	active := state.IsActive()
	busy := active || state == model.StateListing
	sel := ui.svc.Selection()
	hasFiles := sel != nil && sel.Count() > 0

	setEnabled(!busy, ui.loadBtn)
	setEnabled(!busy, ui.repoEntry, ui.datasetCheck)
	setEnabled(!active, ui.destEntry, ui.browseBtn, ui.rateCheck)
	setEnabled(!active && ui.rateCheck.Checked, ui.rateEntry)
	setEnabled(active, ui.stopBtn)
	setEnabled(hasFiles && !busy, ui.saveSelBtn, ui.loadSelBtn)
	setEnabled(ui.lastFolder != "", ui.openBtn)

	switch state {
	case model.StateDownloading:
		ui.startBtn.SetText(text(KeyPause))
		ui.startBtn.SetIcon(theme.MediaPauseIcon())
	case model.StatePaused:
		ui.startBtn.SetText(text(KeyResume))
		ui.startBtn.SetIcon(theme.MediaPlayIcon())
	default:
		ui.startBtn.SetText(text(KeyStart))
		ui.startBtn.SetIcon(theme.MediaPlayIcon())
	}
	setEnabled(active || (hasFiles && (state == model.StateReady || state.IsFinished())), ui.startBtn)

	ui.fileList.Refresh()
}

type disableable interface {
	Enable()
	Disable()
}

func setEnabled(enabled bool, widgets ...disableable) {
	for _, w := range widgets {
		if enabled {
			w.Enable()
		} else {
			w.Disable()
		}
	}
}

// reportError logs err to the status panel and shows it
func (ui *RootUI) reportError(err error) {
	ui.logPanel.Append("Error: " + err.Error())
	ui.showError(err)
}

func (ui *RootUI) showError(err error) {
	ui.log.Debug().Err(err).Msg("Showing error")
	dialog.ShowError(err, ui.window)
}

// onClose stops a live job before the window goes away so aria2c does not outlive the app
func (ui *RootUI) onClose() {
	if !ui.svc.State().IsActive() {
		ui.window.Close()
		return
	}
	go func() {
		_ = ui.svc.Stop()
		fyne.Do(ui.window.Close)
	}()
}
