package utils_test

import (
	"io/fs"
	"testing"
	"time"

	"github.com/temirov/treer/internal/utils"
)

func TestFormatFileSize(t *testing.T) {
	testCases := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{name: "negative", bytes: -1, expected: "0 B"},
		{name: "zero", bytes: 0, expected: "0 B"},
		{name: "bytes", bytes: 999, expected: "999 B"},
		{name: "two kilobytes", bytes: 2048, expected: "2.0 KB"},
		{name: "fractional kilobytes", bytes: 2560, expected: "2.5 KB"},
		{name: "rounded kilobytes", bytes: 2690, expected: "2.6 KB"},
		{name: "one megabyte", bytes: 1048576, expected: "1.0 MB"},
		{name: "fractional megabytes", bytes: 3365930, expected: "3.2 MB"},
		{name: "gigabytes", bytes: 3 * 1024 * 1024 * 1024, expected: "3.0 GB"},
		{name: "caps at terabytes", bytes: 2048 * 1024 * 1024 * 1024 * 1024, expected: "2048.0 TB"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.FormatFileSize(testCase.bytes)
			if result != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	testCases := []struct {
		name     string
		value    time.Time
		expected string
	}{
		{name: "zero time", value: time.Time{}, expected: utils.UnknownDate},
		{name: "before epoch", value: time.Unix(-10, 0), expected: utils.UnknownDate},
		{name: "epoch", value: time.Unix(0, 0), expected: "1970-01-01 00:00:00"},
		{name: "leap year march", value: time.Unix(69696969, 0), expected: "1972-03-17 16:16:09"},
		{name: "january", value: time.Unix(96969696, 0), expected: "1973-01-27 08:01:36"},
		{name: "march", value: time.Unix(99999999, 0), expected: "1973-03-03 09:46:39"},
		{
			name:     "non utc location",
			value:    time.Date(2024, time.January, 2, 15, 4, 5, 0, time.FixedZone("UTC+2", 2*60*60)),
			expected: "2024-01-02 13:04:05",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.FormatTimestamp(testCase.value)
			if result != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}

func TestFormatPermissions(t *testing.T) {
	testCases := []struct {
		name     string
		mode     fs.FileMode
		isDir    bool
		expected string
	}{
		{name: "file 644", mode: 0o644, expected: "[-rw-r--r--]"},
		{name: "file 755", mode: 0o755, expected: "[-rwxr-xr-x]"},
		{name: "file 777", mode: 0o777, expected: "[-rwxrwxrwx]"},
		{name: "directory 644", mode: 0o644, isDir: true, expected: "[drw-r--r--]"},
		{name: "directory 755", mode: 0o755, isDir: true, expected: "[drwxr-xr-x]"},
		{name: "directory 777", mode: 0o777, isDir: true, expected: "[drwxrwxrwx]"},
		{name: "type bits ignored", mode: fs.ModeDir | 0o700, isDir: true, expected: "[drwx------]"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.FormatPermissions(testCase.mode, testCase.isDir)
			if result != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}
