package model

// Package model defines domain data structures used across the app: repository
// listings, file selection, the download job and its session state machine.
// Structures are designed for direct binding in the UI and explicit state transitions.
