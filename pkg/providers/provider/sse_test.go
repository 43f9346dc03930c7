package provider_test

import (
	"strings"
	"testing"

	"github.com/germanamz/llmstream/pkg/providers/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanSSE_DataPayloads(t *testing.T) {
	input := "data: one\n\ndata: two\n\ndata: three\n\n"

	var got []string
	err := provider.ScanSSE(strings.NewReader(input), func(data []byte) bool {
		got = append(got, string(data))
		return true
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"one", "two", "three"}, got)
}

func TestScanSSE_SkipsNonDataLines(t *testing.T) {
	input := ": comment\nevent: message\nretry: 100\ndata: payload\n\n"

	var got []string
	err := provider.ScanSSE(strings.NewReader(input), func(data []byte) bool {
		got = append(got, string(data))
		return true
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"payload"}, got)
}

func TestScanSSE_NoSpaceAfterColon(t *testing.T) {
	var got []string
	err := provider.ScanSSE(strings.NewReader("data:tight\n\n"), func(data []byte) bool {
		got = append(got, string(data))
		return true
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"tight"}, got)
}

func TestScanSSE_CallbackStops(t *testing.T) {
	input := "data: one\n\ndata: [DONE]\n\ndata: never\n\n"

	var got []string
	err := provider.ScanSSE(strings.NewReader(input), func(data []byte) bool {
		if string(data) == "[DONE]" {
			return false
		}
		got = append(got, string(data))
		return true
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"one"}, got)
}

func TestScanSSE_EmptyStream(t *testing.T) {
	err := provider.ScanSSE(strings.NewReader(""), func([]byte) bool {
		t.Fatal("callback should not fire on an empty stream")
		return false
	})
	require.NoError(t, err)
}
