package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  hello world \n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleText_EOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	require.Error(t, err)
}

func TestGetMultiline(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{name: "double enter", in: "a\nb\n\n\n", want: "a\nb"},
		{name: "crlf", in: "a\r\nb\r\n\r\n", want: "a\nb"},
		{name: "eof", in: "a\nb", want: "a\nb"},
		{name: "empty", in: "\n", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetMultiline(rdr(tt.in), "Notes", &out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }

	var out bytes.Buffer
	_, err := GetPassword(&out)
	require.Error(t, err)
}

func TestGetList(t *testing.T) {
	var out bytes.Buffer
	got, err := GetList(rdr(" Calm, ,Joyful ,\n"), "Moods", &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"Calm", "Joyful"}, got)

	got, err = GetList(rdr("\n"), "Moods", &out)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetOptionalFloat(t *testing.T) {
	var out bytes.Buffer

	got, err := GetOptionalFloat(rdr("7.5\n"), "Sleep", &out)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 7.5, *got)

	got, err = GetOptionalFloat(rdr("\n"), "Sleep", &out)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = GetOptionalFloat(rdr("lots\n"), "Sleep", &out)
	require.Error(t, err)
}
