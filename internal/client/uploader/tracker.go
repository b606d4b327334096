// Package uploader runs a batch of candidate files through a transport,
// producing exactly one result per file and a single aggregated progress
// figure for the whole batch.
package uploader

import (
	"math"
	"sync"

	"github.com/CHJCOCO/ryuin/internal/upload"
)

// Tracker aggregates per-file progress into one overall percentage.
// Per-file progress and the overall figure are monotonic: late or
// out-of-order reports can never move a value backwards.
type Tracker struct {
	mu          sync.Mutex
	files       []upload.FileState
	lastOverall int
	onChange    func(overall int, files []upload.FileState)
}

// NewTracker prepares progress state for the given batch. onChange, if not
// nil, is invoked after every visible change with the overall percentage
// and a snapshot of the per-file states.
func NewTracker(files []upload.CandidateFile, onChange func(overall int, files []upload.FileState)) *Tracker {
	states := make([]upload.FileState, len(files))
	for i, f := range files {
		states[i] = upload.FileState{File: f, Status: upload.StatusIdle}
	}
	return &Tracker{files: states, onChange: onChange}
}

// SetStatus moves one file to a new lifecycle status. Terminal statuses
// pin the file's progress: success means 100, error freezes it where the
// transfer stopped.
func (t *Tracker) SetStatus(i int, status upload.Status) {
	t.mu.Lock()
	t.files[i].Status = status
	if status == upload.StatusSuccess {
		t.files[i].Progress = 100
	}
	t.notifyAndUnlock()
}

// SetProgress records transfer progress for one file, clamped to [0,100]
// and never below the value already recorded.
func (t *Tracker) SetProgress(i int, pct int) {
	t.mu.Lock()
	if pct > 100 {
		pct = 100
	}
	if pct > t.files[i].Progress {
		t.files[i].Progress = pct
	}
	t.notifyAndUnlock()
}

// SetResult attaches the outcome of one file's attempt.
func (t *Tracker) SetResult(i int, res upload.Result) {
	t.mu.Lock()
	t.files[i].Result = &res
	if res.Success {
		t.files[i].Status = upload.StatusSuccess
		t.files[i].Progress = 100
	} else {
		t.files[i].Status = upload.StatusError
	}
	t.notifyAndUnlock()
}

// Overall returns the batch-wide percentage: finished files count in full,
// in-flight files contribute their fraction, and the result is rounded to
// the nearest whole percent.
func (t *Tracker) Overall() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.overallLocked()
}

func (t *Tracker) overallLocked() int {
	n := len(t.files)
	if n == 0 {
		return 0
	}
	var sum float64
	for _, f := range t.files {
		switch f.Status {
		case upload.StatusSuccess, upload.StatusError:
			sum += 1
		default:
			sum += float64(f.Progress) / 100
		}
	}
	pct := int(math.Round(sum / float64(n) * 100))
	if pct < t.lastOverall {
		return t.lastOverall
	}
	return pct
}

// Files returns a snapshot of the per-file states.
func (t *Tracker) Files() []upload.FileState {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]upload.FileState, len(t.files))
	copy(out, t.files)
	return out
}

// notifyAndUnlock updates the cached overall figure and fires the callback
// outside the lock.
func (t *Tracker) notifyAndUnlock() {
	overall := t.overallLocked()
	t.lastOverall = overall
	var snapshot []upload.FileState
	if t.onChange != nil {
		snapshot = make([]upload.FileState, len(t.files))
		copy(snapshot, t.files)
	}
	cb := t.onChange
	t.mu.Unlock()
	if cb != nil {
		cb(overall, snapshot)
	}
}
