package model

import (
	"errors"
	"fmt"
	"sync"
)

// Selection errors
var (
	// ErrSelectionLocked is returned when selection is changed while a download job is active
	ErrSelectionLocked = errors.New("selection is locked while a download is active")

	// ErrUnknownPath is returned when a path is not part of the current listing
	ErrUnknownPath = errors.New("path is not in the repository listing")
)

// FileEntry is a listed file together with the user's selection flag
type FileEntry struct {
	Path     string
	Size     int64
	Selected bool
}

// Selection holds the listing of one repository and which files the user picked.
// It is safe for concurrent use; the download service locks it for the lifetime of a job.
type Selection struct {
	mu       sync.RWMutex
	entries  []FileEntry
	index    map[string]int
	locked   bool
	onChange func()
}

// NewSelection creates a selection from a listing with every file selected
func NewSelection(files []RemoteFile) *Selection {
	s := &Selection{
		entries: make([]FileEntry, 0, len(files)),
		index:   make(map[string]int, len(files)),
	}
	for _, f := range files {
		if _, dup := s.index[f.Path]; dup {
			continue
		}
		s.index[f.Path] = len(s.entries)
		s.entries = append(s.entries, FileEntry{Path: f.Path, Size: f.Size, Selected: true})
	}
	return s
}

// SetChangeCallback registers a function called after every successful mutation
func (s *Selection) SetChangeCallback(callback func()) {
	s.mu.Lock()
	s.onChange = callback
	s.mu.Unlock()
}

// Count returns the number of listed files
func (s *Selection) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Entry returns the entry at position i in listing order
func (s *Selection) Entry(i int) (FileEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.entries) {
		return FileEntry{}, false
	}
	return s.entries[i], true
}

// Entries returns a copy of all entries in listing order
func (s *Selection) Entries() []FileEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]FileEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Selected returns the selected paths in listing order
func (s *Selection) Selected() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var paths []string
	for _, e := range s.entries {
		if e.Selected {
			paths = append(paths, e.Path)
		}
	}
	return paths
}

// SelectedCount returns how many files are selected
func (s *Selection) SelectedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.entries {
		if e.Selected {
			n++
		}
	}
	return n
}

// SelectedSize returns the total size in bytes of the selected files
func (s *Selection) SelectedSize() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, e := range s.entries {
		if e.Selected {
			total += e.Size
		}
	}
	return total
}

// IsSelected reports whether path is selected
func (s *Selection) IsSelected(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[path]
	return ok && s.entries[i].Selected
}

// Set changes the selection flag of a single path
func (s *Selection) Set(path string, selected bool) error {
	return s.mutate(func() (bool, error) {
		i, ok := s.index[path]
		if !ok {
			return false, fmt.Errorf("%w: %s", ErrUnknownPath, path)
		}
		changed := s.entries[i].Selected != selected
		s.entries[i].Selected = selected
		return changed, nil
	})
}

// SelectAll marks every file selected
func (s *Selection) SelectAll() error {
	return s.setEach(func(FileEntry) bool { return true })
}

// SelectNone clears the selection
func (s *Selection) SelectNone() error {
	return s.setEach(func(FileEntry) bool { return false })
}

// Invert flips every selection flag
func (s *Selection) Invert() error {
	return s.setEach(func(e FileEntry) bool { return !e.Selected })
}

// SelectMatching sets the flag of every path matching pattern and returns the number of matches
func (s *Selection) SelectMatching(pattern string, selected bool) (int, error) {
	matcher, err := NewPathMatcher(pattern)
	if err != nil {
		return 0, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	matched := 0
	err = s.mutate(func() (bool, error) {
		changed := false
		for i := range s.entries {
			if !matcher.Match(s.entries[i].Path) {
				continue
			}
			matched++
			if s.entries[i].Selected != selected {
				s.entries[i].Selected = selected
				changed = true
			}
		}
		return changed, nil
	})
	return matched, err
}

// Apply selects exactly the given paths; unknown paths are skipped and returned
func (s *Selection) Apply(paths []string) ([]string, error) {
	var unknown []string
	err := s.mutate(func() (bool, error) {
		want := make(map[string]bool, len(paths))
		for _, p := range paths {
			if _, ok := s.index[p]; !ok {
				unknown = append(unknown, p)
				continue
			}
			want[p] = true
		}
		for i := range s.entries {
			s.entries[i].Selected = want[s.entries[i].Path]
		}
		return true, nil
	})
	return unknown, err
}

// Lock freezes the selection while a download job runs
func (s *Selection) Lock() {
	s.mu.Lock()
	s.locked = true
	s.mu.Unlock()
}

// Unlock allows edits again
func (s *Selection) Unlock() {
	s.mu.Lock()
	s.locked = false
	s.mu.Unlock()
}

// Locked reports whether the selection is frozen
func (s *Selection) Locked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locked
}

func (s *Selection) setEach(next func(FileEntry) bool) error {
	return s.mutate(func() (bool, error) {
		changed := false
		for i := range s.entries {
			v := next(s.entries[i])
			if s.entries[i].Selected != v {
				s.entries[i].Selected = v
				changed = true
			}
		}
		return changed, nil
	})
}

// mutate runs fn under the write lock and notifies the change callback outside of it
func (s *Selection) mutate(fn func() (bool, error)) error {
	s.mu.Lock()
	if s.locked {
		s.mu.Unlock()
		return ErrSelectionLocked
	}
	changed, err := fn()
	callback := s.onChange
	s.mu.Unlock()

	if err == nil && changed && callback != nil {
		callback()
	}
	return err
}
