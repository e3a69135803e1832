package download

// Package download orchestrates a download job: it owns the session state
// machine, hands each selected file to the engine in listing order and turns
// the engine readout into progress and status-log updates for the UI and CLI.
