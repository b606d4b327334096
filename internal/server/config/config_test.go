package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.EndpointAddr)
	assert.Equal(t, "dev", c.Env)
	assert.Equal(t, "ap-northeast-2", c.S3Region)
	assert.Equal(t, "contact-files", c.S3KeyPrefix)
	assert.Equal(t, 300, c.PresignExpirySeconds)
	assert.Equal(t, "https://api.emailjs.com", c.EmailJSBaseURL)
	assert.Equal(t, 10, c.RatePerMinute)

	// Credentials have no defaults on purpose.
	assert.Empty(t, c.S3AccessKeyID)
	assert.Empty(t, c.S3SecretAccessKey)
	assert.Empty(t, c.S3Bucket)
}

func TestParseEnv_Overlays(t *testing.T) {
	t.Setenv("S3_BUCKET", "ryuin-contact")
	t.Setenv("S3_ACCESS_KEY_ID", "AKIATEST")
	t.Setenv("PRESIGN_EXPIRY_SECONDS", "120")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, "ryuin-contact", c.S3Bucket)
	assert.Equal(t, "AKIATEST", c.S3AccessKeyID)
	assert.Equal(t, 120, c.PresignExpirySeconds)
	// Untouched vars keep their defaults.
	assert.Equal(t, ":8080", c.EndpointAddr)
}

func TestParseJson_SparseOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"s3_bucket":"from-json","endpoint_addr":":9999"}`), 0o600))

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"cmd", "-c", path}

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, "from-json", c.S3Bucket)
	assert.Equal(t, ":9999", c.EndpointAddr)
	// Keys absent from the file keep defaults.
	assert.Equal(t, "ap-northeast-2", c.S3Region)
}

func TestParseJson_InvalidFilePanics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"cmd", "-config", path}

	var c Config
	c.LoadDefaults()
	require.Panics(t, func() { parseJson(&c) })
}

func TestParseFlags(t *testing.T) {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"cmd", "-a", ":7070", "-b", "bucket", "-g", "us-west-1", "-e", "http://127.0.0.1:9000", "-m", "prod"}

	var c Config
	c.LoadDefaults()
	parseFlags(&c)

	assert.Equal(t, ":7070", c.EndpointAddr)
	assert.Equal(t, "bucket", c.S3Bucket)
	assert.Equal(t, "us-west-1", c.S3Region)
	assert.Equal(t, "http://127.0.0.1:9000", c.S3BaseEndpoint)
	assert.Equal(t, "prod", c.Env)
}

func TestStorage_SliceOfConfig(t *testing.T) {
	var c Config
	c.LoadDefaults()
	c.S3AccessKeyID = "id"
	c.S3SecretAccessKey = "secret"
	c.S3Bucket = "b"

	sc := c.Storage()
	assert.Equal(t, "id", sc.AccessKeyID)
	assert.Equal(t, "b", sc.Bucket)
	assert.Equal(t, 5*time.Minute, sc.PresignExpiry)
	assert.Empty(t, sc.Missing())
}
