package model

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a state change is not allowed by the session state machine
var ErrInvalidTransition = errors.New("invalid state transition")

// SessionState represents the coarse state of the downloader session
type SessionState string

const (
	// StateIdle means no repository listing is in flight and no job is live
	StateIdle SessionState = "Idle"

	// StateListing means the repository file listing is being fetched
	StateListing SessionState = "Listing"

	// StateReady means files are listed and a download can be started
	StateReady SessionState = "Ready"

	// StateDownloading means the engine is transferring files
	StateDownloading SessionState = "Downloading"

	// StatePaused means the job was paused by user
	StatePaused SessionState = "Paused"

	// StateStopped means the job was stopped by user
	StateStopped SessionState = "Stopped"

	// StateFinished means all selected files were downloaded
	StateFinished SessionState = "Finished"

	// StateFailed means the job ended with an error
	StateFailed SessionState = "Failed"
)

// transitions lists the allowed successor states for every state
var transitions = map[SessionState][]SessionState{
	StateIdle:        {StateListing, StateReady},
	StateListing:     {StateReady, StateIdle},
	StateReady:       {StateDownloading, StateListing, StateIdle},
	StateDownloading: {StatePaused, StateStopped, StateFinished, StateFailed},
	StatePaused:      {StateDownloading, StateStopped, StateFailed},
	StateStopped:     {StateIdle},
	StateFinished:    {StateIdle},
	StateFailed:      {StateIdle},
}

// String returns the string representation of SessionState
func (s SessionState) String() string {
	return string(s)
}

// IsActive returns true while a download job owns the engine (downloading or paused)
func (s SessionState) IsActive() bool {
	return s == StateDownloading || s == StatePaused
}

// IsFinished returns true if the job reached a terminal state (stopped, finished or failed)
func (s SessionState) IsFinished() bool {
	return s == StateStopped || s == StateFinished || s == StateFailed
}

// CanTransition reports whether moving from s to next is allowed
func (s SessionState) CanTransition(next SessionState) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition returns next if the move is allowed, otherwise an ErrInvalidTransition error
func (s SessionState) Transition(next SessionState) (SessionState, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}
	return next, nil
}
