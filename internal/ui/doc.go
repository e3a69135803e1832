package ui

// Package ui contains the Fyne desktop interface: repository loading, the file checklist,
// rate-limit and destination controls, the progress bar and the status log.
// It drives a download.Orchestrator and renders its updates. All UI strings are localized via Localization.
