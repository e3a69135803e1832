package engine

import (
	"bufio"
	"reflect"
	"strings"
	"testing"
)

func TestParseProgress(t *testing.T) {
	tests := []struct {
		line     string
		ok       bool
		expected Progress
	}{
		{
			line: "[#2089b0 12MiB/1.2GiB(1%) CN:16 DL:3.4MiB ETA:5m12s]",
			ok:   true,
			expected: Progress{GID: "2089b0", Completed: 12 * 1024 * 1024, Total: 1288490188,
				Percent: 1, Connections: 16, Speed: "3.4MiB/s", ETASec: 312},
		},
		{
			line: "[#a1 0B/0B CN:1 DL:0B]",
			ok:   true,
			expected: Progress{GID: "a1", Percent: -1, Connections: 1, Speed: "0B/s", ETASec: -1},
		},
		{
			line: " *** Download Progress Summary ***  [#ff00 512KiB/1.0MiB(50%) CN:4 DL:128KiB ETA:1d2h]",
			ok:   true,
			expected: Progress{GID: "ff00", Completed: 512 * 1024, Total: 1024 * 1024,
				Percent: 50, Connections: 4, Speed: "128KiB/s", ETASec: 93600},
		},
		{
			line: "[#bb 100B/400B]",
			ok:   true,
			expected: Progress{GID: "bb", Completed: 100, Total: 400, Percent: 25, ETASec: -1},
		},
		{line: "Download Results:", ok: false},
		{line: "10/14 12:00:00 [ERROR] CUID#7 - Download aborted.", ok: false},
		{line: "", ok: false},
	}

	for _, test := range tests {
		p, ok := ParseProgress(test.line)
		if ok != test.ok {
			t.Errorf("ParseProgress(%q) ok = %v, expected %v", test.line, ok, test.ok)
			continue
		}
		if ok && !reflect.DeepEqual(p, test.expected) {
			t.Errorf("ParseProgress(%q) = %+v, expected %+v", test.line, p, test.expected)
		}
	}
}

func TestParseETA(t *testing.T) {
	tests := []struct {
		in       string
		expected int
	}{
		{"12s", 12},
		{"5m12s", 312},
		{"1h2m3s", 3723},
		{"2d", 172800},
		{"bogus", -1},
	}
	for _, test := range tests {
		if got := parseETA(test.in); got != test.expected {
			t.Errorf("parseETA(%q) = %d, expected %d", test.in, got, test.expected)
		}
	}
}

func TestScanCRLF(t *testing.T) {
	input := "first\r[#1 1B/2B(50%)]\r[#1 2B/2B(100%)]\nlast"
	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Split(ScanCRLF)

	var got []string
	for scanner.Scan() {
		got = append(got, scanner.Text())
	}

	expected := []string{"first", "[#1 1B/2B(50%)]", "[#1 2B/2B(100%)]", "last"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("ScanCRLF tokens = %q, expected %q", got, expected)
	}
}
