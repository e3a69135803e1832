package model

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// JobIDPrefix is prepended to every download job ID
const JobIDPrefix = "job-"

// DownloadJob is the single download run over the selected files of one repository
type DownloadJob struct {
	ID          string
	Repo        RepoID
	Destination string   // base directory chosen by the user
	Folder      string   // Destination joined with the repo short name
	RateLimit   string   // aria2 rate syntax, empty for unlimited
	Files       []string // selected paths in listing order
	Current     int      // index into Files of the file being transferred
	Status      SessionState
	Percent     int    // overall 0 to 100
	FilePercent int    // current file 0 to 100
	CurrentFile string // path of the file being transferred
	Speed       string // human readable speed reported by the engine
	ETASec      int    // ETA of the current file in seconds, -1 if unknown
	LastError   string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// NewDownloadJob prepares a job for files under destination
func NewDownloadJob(repo RepoID, destination, rateLimit string, files []string) *DownloadJob {
	list := make([]string, len(files))
	copy(list, files)
	return &DownloadJob{
		ID:          NewJobID(),
		Repo:        repo,
		Destination: destination,
		Folder:      filepath.Join(destination, repo.ShortName()),
		RateLimit:   rateLimit,
		Files:       list,
		Status:      StateDownloading,
		ETASec:      -1,
		StartedAt:   time.Now(),
	}
}

// NewJobID generates a time ordered job ID using UUID v7
func NewJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(JobIDPrefix+"%d", time.Now().UnixNano())
	}
	return JobIDPrefix + id.String()
}

// Total returns the number of files in the job
func (j *DownloadJob) Total() int {
	return len(j.Files)
}

// Completed returns how many files finished before the current one
func (j *DownloadJob) Completed() int {
	if j.Current > len(j.Files) {
		return len(j.Files)
	}
	return j.Current
}

// SetFileProgress updates the current file percentage and recomputes the overall one
func (j *DownloadJob) SetFileProgress(percent int) {
	j.FilePercent = clampPercent(percent)
	j.Percent = OverallPercent(j.Completed(), j.FilePercent, j.Total())
}

// CompleteFile marks the current file done and advances to the next one
func (j *DownloadJob) CompleteFile() {
	if j.Current < len(j.Files) {
		j.Current++
	}
	j.FilePercent = 0
	j.Speed = ""
	j.ETASec = -1
	j.Percent = OverallPercent(j.Current, 0, j.Total())
}

// Done reports whether every file was transferred
func (j *DownloadJob) Done() bool {
	return j.Current >= len(j.Files)
}

// Remaining returns the files not yet transferred, starting with the current one
func (j *DownloadJob) Remaining() []string {
	if j.Current >= len(j.Files) {
		return nil
	}
	return j.Files[j.Current:]
}

// Snapshot returns a copy safe to hand to another goroutine
func (j *DownloadJob) Snapshot() DownloadJob {
	c := *j
	c.Files = make([]string, len(j.Files))
	copy(c.Files, j.Files)
	return c
}

// GetETAString returns ETA formatted as hh:mm:ss, or "—" if unknown
func (j *DownloadJob) GetETAString() string {
	return FormatETA(j.ETASec)
}

// FormatETA formats seconds as mm:ss or hh:mm:ss, or "—" when unknown
func FormatETA(sec int) string {
	if sec <= 0 {
		return "—"
	}
	hours := sec / 3600
	minutes := (sec % 3600) / 60
	seconds := sec % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// OverallPercent combines finished files and the current file's progress into a 0..100 value
func OverallPercent(completed, filePercent, total int) int {
	if total <= 0 {
		return 0
	}
	return clampPercent((completed*100 + clampPercent(filePercent)) / total)
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
