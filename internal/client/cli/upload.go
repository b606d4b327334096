package cli

import (
	"context"
	"fmt"

	"github.com/CHJCOCO/ryuin/internal/filex"
	"github.com/CHJCOCO/ryuin/internal/upload"
)

// Upload reads the given paths and uploads them as one batch, printing a
// progress line and then one result line per file.
func (a *App) Upload(ctx context.Context, paths []string) {
	files := make([]upload.CandidateFile, 0, len(paths))
	for _, p := range paths {
		f, err := filex.ReadCandidate(p)
		if err != nil {
			fmt.Fprintln(a.out, "Error:", err)
			return
		}
		files = append(files, f)
	}

	onProgress := func(overall int, _ []upload.FileState) {
		fmt.Fprintf(a.out, "\rUploading... %3d%%", overall)
	}

	var results []upload.Result
	if a.config.Concurrency > 1 {
		results = a.uploader.UploadBatchConcurrent(ctx, files, a.config.Concurrency, onProgress)
	} else {
		results = a.uploader.UploadBatch(ctx, files, onProgress)
	}
	fmt.Fprintln(a.out)

	for _, r := range results {
		if r.Success {
			kind := "file"
			if filex.IsImageFile(r.FileName) {
				kind = "image"
			}
			fmt.Fprintf(a.out, "ok   %s (%s, %s) -> %s\n", r.FileName, kind, filex.FormatFileSize(r.FileSize), r.PublicURL)
		} else {
			fmt.Fprintf(a.out, "fail %s: %s\n", r.FileName, r.Error)
		}
	}
}
