package storage

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Object keys follow {prefix}/{uuid}_{timestamp}_{sanitizedName}. The UUID
// makes keys collision-resistant, the timestamp keeps listings readable,
// and the sanitized original name lets an operator recognize a file in the
// bucket console.

// unsafeNameChars matches everything outside ASCII letters, digits, Hangul
// syllables, dot, dash and underscore. Whitespace falls in this class too.
var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9가-힣.\-_]`)

// seam for tests
var nowFunc = time.Now

// SanitizeName replaces every character the key scheme cannot carry with
// an underscore. Hangul is kept so Korean file names stay recognizable.
func SanitizeName(name string) string {
	return unsafeNameChars.ReplaceAllString(name, "_")
}

// NewKey builds a fresh object key for one upload attempt of the named
// file. A new key is generated per attempt; keys are never reused across
// retries.
func NewKey(prefix, fileName string) string {
	ts := nowFunc().UTC().Format("20060102T150405")
	return fmt.Sprintf("%s/%s_%s_%s", prefix, uuid.NewString(), ts, SanitizeName(fileName))
}
