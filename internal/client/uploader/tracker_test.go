package uploader

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CHJCOCO/ryuin/internal/upload"
)

func twoFiles() []upload.CandidateFile {
	return []upload.CandidateFile{
		{Name: "a.pdf", Size: 10, MIMEType: "application/pdf", Data: make([]byte, 10)},
		{Name: "b.pdf", Size: 10, MIMEType: "application/pdf", Data: make([]byte, 10)},
	}
}

func TestTracker_OverallCombinesFinishedAndInFlight(t *testing.T) {
	tr := NewTracker(twoFiles(), nil)

	tr.SetResult(0, upload.Result{Success: true, FileName: "a.pdf"})
	tr.SetProgress(1, 40)

	// (1 + 0.4) / 2 = 0.7
	assert.Equal(t, 70, tr.Overall())
}

func TestTracker_FailedFileCountsAsFinished(t *testing.T) {
	tr := NewTracker(twoFiles(), nil)

	tr.SetResult(0, upload.Result{FileName: "a.pdf", Error: "boom"})
	tr.SetResult(1, upload.Result{Success: true, FileName: "b.pdf"})

	assert.Equal(t, 100, tr.Overall())
}

func TestTracker_PerFileProgressNeverDecreases(t *testing.T) {
	tr := NewTracker(twoFiles(), nil)

	tr.SetProgress(0, 50)
	tr.SetProgress(0, 30)

	assert.Equal(t, 50, tr.Files()[0].Progress)
}

func TestTracker_OverallNeverDecreases(t *testing.T) {
	var seen []int
	tr := NewTracker(twoFiles(), func(overall int, _ []upload.FileState) {
		seen = append(seen, overall)
	})

	tr.SetProgress(0, 80)
	tr.SetProgress(0, 10)
	tr.SetStatus(0, upload.StatusUploading)
	tr.SetResult(0, upload.Result{Success: true})
	tr.SetProgress(1, 100)
	tr.SetResult(1, upload.Result{Success: true})

	assert.True(t, sort.IntsAreSorted(seen), "overall went backwards: %v", seen)
	assert.Equal(t, 100, seen[len(seen)-1])
}

func TestTracker_EmptyBatch(t *testing.T) {
	tr := NewTracker(nil, nil)
	assert.Equal(t, 0, tr.Overall())
}

func TestTracker_SuccessPinsProgress(t *testing.T) {
	tr := NewTracker(twoFiles(), nil)

	tr.SetProgress(0, 42)
	tr.SetResult(0, upload.Result{Success: true})

	assert.Equal(t, 100, tr.Files()[0].Progress)
	assert.Equal(t, upload.StatusSuccess, tr.Files()[0].Status)
}
