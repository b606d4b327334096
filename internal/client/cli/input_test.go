package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("  류인스튜디오  \n"))

	got, err := GetSimpleText(r, "Company name", &out)
	require.NoError(t, err)

	assert.Equal(t, "류인스튜디오", got)
	assert.Contains(t, out.String(), "Company name")
}

func TestGetSimpleText_EOFAfterPartialLine(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("no newline"))

	got, err := GetSimpleText(r, "Prompt", &out)
	require.NoError(t, err)
	assert.Equal(t, "no newline", got)
}

func TestGetMultiline(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("line one\nline two\n\n"))

	got, err := GetMultiline(r, "Description", &out)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", got)
}

func TestGetList(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("웹사이트 제작\n브랜딩\n\n"))

	got, err := GetList(r, "Requested services", &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"웹사이트 제작", "브랜딩"}, got)
}

func TestGetList_Empty(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("\n"))

	got, err := GetList(r, "Attachment paths", &out)
	require.NoError(t, err)
	assert.Empty(t, got)
}
