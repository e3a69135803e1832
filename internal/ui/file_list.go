package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"

	"github.com/ytget/hf-downloader/internal/model"
)

// fileRow is one checklist line: a check labelled with the path and the file size
type fileRow struct {
	widget.BaseWidget

	check *widget.Check
	size  *widget.Label
}

func newFileRow() *fileRow {
	r := &fileRow{
		check: widget.NewCheck("", nil),
		size:  widget.NewLabel(DashPlaceholder),
	}
	r.size.Alignment = fyne.TextAlignTrailing
	r.ExtendBaseWidget(r)
	return r
}

// CreateRenderer implements fyne.Widget
func (r *fileRow) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewBorder(nil, nil, nil, r.size, r.check))
}

// bind shows entry without firing the previous toggle handler
func (r *fileRow) bind(entry model.FileEntry, locked bool, onToggle func(bool)) {
	r.check.OnChanged = nil
	r.check.Text = entry.Path
	r.check.SetChecked(entry.Selected)
	if locked {
		r.check.Disable()
	} else {
		r.check.Enable()
	}
	r.check.Refresh()
	r.check.OnChanged = onToggle
	r.size.SetText(humanize.IBytes(uint64(max(entry.Size, 0))))
}

// FileList renders a Selection as a checklist with bulk selection tools
type FileList struct {
	localization *Localization
	sel          *model.Selection
	onError      func(error)

	list        *widget.List
	summary     *widget.Label
	filterEntry *widget.Entry
	allBtn      *widget.Button
	noneBtn     *widget.Button
	invertBtn   *widget.Button
	matchBtn    *widget.Button
	unmatchBtn  *widget.Button

	content fyne.CanvasObject
}

// NewFileList creates an empty checklist; onError receives selection errors
func NewFileList(localization *Localization, onError func(error)) *FileList {
	fl := &FileList{localization: localization, onError: onError}

	fl.list = widget.NewList(
		func() int {
			if fl.sel == nil {
				return 0
			}
			return fl.sel.Count()
		},
		func() fyne.CanvasObject { return newFileRow() },
		fl.updateRow,
	)

	fl.summary = widget.NewLabel(localization.GetText(KeyNoFiles))

	fl.filterEntry = widget.NewEntry()
	fl.filterEntry.SetPlaceHolder(FilterPlaceholder)
	fl.filterEntry.OnSubmitted = func(string) { fl.selectMatching(true) }

	fl.allBtn = widget.NewButton(localization.GetText(KeySelectAll), func() { fl.bulk((*model.Selection).SelectAll) })
	fl.noneBtn = widget.NewButton(localization.GetText(KeySelectNone), func() { fl.bulk((*model.Selection).SelectNone) })
	fl.invertBtn = widget.NewButton(localization.GetText(KeyInvert), func() { fl.bulk((*model.Selection).Invert) })
	fl.matchBtn = widget.NewButton(localization.GetText(KeySelectMatching), func() { fl.selectMatching(true) })
	fl.unmatchBtn = widget.NewButton(localization.GetText(KeyDeselectMatching), func() { fl.selectMatching(false) })

	tools := container.NewBorder(nil, nil,
		container.NewHBox(fl.allBtn, fl.noneBtn, fl.invertBtn),
		container.NewHBox(fl.matchBtn, fl.unmatchBtn),
		fl.filterEntry,
	)
	fl.content = container.NewBorder(tools, fl.summary, nil, nil, fl.list)

	fl.Refresh()
	return fl
}

// Container returns the checklist with its toolbar and summary
func (fl *FileList) Container() fyne.CanvasObject {
	return fl.content
}

// SetSelection replaces the displayed selection
func (fl *FileList) SetSelection(sel *model.Selection) {
	if fl.sel != nil {
		fl.sel.SetChangeCallback(nil)
	}
	fl.sel = sel
	if sel != nil {
		sel.SetChangeCallback(fl.Refresh)
	}
	fl.list.ScrollToTop()
	fl.Refresh()
}

// Refresh redraws rows, the summary and the toolbar state
func (fl *FileList) Refresh() {
	fl.summary.SetText(fl.SummaryText())

	editable := fl.sel != nil && fl.sel.Count() > 0 && !fl.sel.Locked()
	for _, b := range []*widget.Button{fl.allBtn, fl.noneBtn, fl.invertBtn, fl.matchBtn, fl.unmatchBtn} {
		if editable {
			b.Enable()
		} else {
			b.Disable()
		}
	}
	if editable {
		fl.filterEntry.Enable()
	} else {
		fl.filterEntry.Disable()
	}
	fl.list.Refresh()
}

// SummaryText describes how many files are selected and their total size
func (fl *FileList) SummaryText() string {
	if fl.sel == nil {
		return fl.localization.GetText(KeyNoFiles)
	}
	return fmt.Sprintf(fl.localization.GetText(KeyFilesSummary),
		fl.sel.SelectedCount(), fl.sel.Count(), humanize.IBytes(uint64(max(fl.sel.SelectedSize(), 0))))
}

func (fl *FileList) updateRow(id widget.ListItemID, obj fyne.CanvasObject) {
	row, ok := obj.(*fileRow)
	if !ok || fl.sel == nil {
		return
	}
	entry, ok := fl.sel.Entry(id)
	if !ok {
		return
	}
	sel := fl.sel
	row.bind(entry, sel.Locked(), func(checked bool) {
		if err := sel.Set(entry.Path, checked); err != nil {
			fl.report(err)
			fl.Refresh()
		}
	})
}

func (fl *FileList) bulk(op func(*model.Selection) error) {
	if fl.sel == nil {
		return
	}
	if err := op(fl.sel); err != nil {
		fl.report(err)
	}
}

func (fl *FileList) selectMatching(selected bool) {
	if fl.sel == nil || fl.filterEntry.Text == "" {
		return
	}
	if _, err := fl.sel.SelectMatching(fl.filterEntry.Text, selected); err != nil {
		fl.report(err)
	}
}

func (fl *FileList) report(err error) {
	if fl.onError != nil {
		fl.onError(err)
	}
}
