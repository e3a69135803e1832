package ui

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
)

// Layout sizing
const (
	WindowWidth  float32 = 860
	WindowHeight float32 = 680

	RateEntryWidth  float32 = 90
	SettingsDialogW float32 = 520
	SettingsDialogH float32 = 460
)

// Placeholders
const (
	RepoPlaceholder   = "org/model or https://huggingface.co/org/model"
	RatePlaceholder   = "2M"
	FilterPlaceholder = "*.onnx, /regex/ or text"
)

// MaxLogLines caps the status log
const MaxLogLines = 500
