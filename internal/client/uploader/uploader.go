package uploader

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/CHJCOCO/ryuin/internal/client/transport"
	"github.com/CHJCOCO/ryuin/internal/logging"
	"github.com/CHJCOCO/ryuin/internal/upload"
)

// Uploader runs batches of files through a FileTransport. One file failing,
// for any reason, never aborts the rest of the batch.
type Uploader struct {
	transport transport.FileTransport
	logger    logging.Logger
}

func New(t transport.FileTransport, logger logging.Logger) *Uploader {
	return &Uploader{transport: t, logger: logger}
}

// UploadBatch processes files one at a time, in order, and returns exactly
// one result per file, at the file's own index. Files the policy rejects
// produce a failed result without any network traffic. A panicking
// transport fails that file only.
func (u *Uploader) UploadBatch(ctx context.Context, files []upload.CandidateFile, onProgress func(overall int, files []upload.FileState)) []upload.Result {
	tracker := NewTracker(files, onProgress)
	results := make([]upload.Result, len(files))

	for i, f := range files {
		results[i] = u.uploadOne(ctx, tracker, i, f)
	}
	return results
}

// UploadBatchConcurrent is UploadBatch with up to limit files in flight at
// once. Results keep the input order.
func (u *Uploader) UploadBatchConcurrent(ctx context.Context, files []upload.CandidateFile, limit int, onProgress func(overall int, files []upload.FileState)) []upload.Result {
	if limit < 1 {
		limit = 1
	}
	tracker := NewTracker(files, onProgress)
	results := make([]upload.Result, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, f := range files {
		g.Go(func() error {
			results[i] = u.uploadOne(ctx, tracker, i, f)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (u *Uploader) uploadOne(ctx context.Context, tracker *Tracker, i int, f upload.CandidateFile) upload.Result {
	if v := upload.ValidateFile(f); !v.Accepted {
		res := upload.Result{
			FileName: f.Name,
			FileSize: f.Size,
			Error:    upload.NewValidationError(v).Error(),
		}
		tracker.SetResult(i, res)
		return res
	}

	tracker.SetStatus(i, upload.StatusGeneratingURL)

	res, err := u.attempt(ctx, tracker, i, f)
	if err != nil {
		if u.logger != nil {
			u.logger.Warn(ctx, "file upload failed", "file", f.Name, "error", err)
		}
		failed := upload.Result{FileName: f.Name, FileSize: f.Size, Error: err.Error()}
		tracker.SetResult(i, failed)
		return failed
	}
	tracker.SetResult(i, *res)
	return *res
}

// attempt isolates one transport call so a panic inside it is converted
// into an error for that file alone.
func (u *Uploader) attempt(ctx context.Context, tracker *Tracker, i int, f upload.CandidateFile) (res *upload.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("upload failed unexpectedly: %v", r)
		}
	}()

	started := false
	return u.transport.Upload(ctx, f, func(pct int) {
		if !started {
			started = true
			tracker.SetStatus(i, upload.StatusUploading)
		}
		tracker.SetProgress(i, pct)
	})
}
