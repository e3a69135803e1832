package engine

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Progress is one parsed aria2c console readout
type Progress struct {
	GID         string
	Completed   int64
	Total       int64
	Percent     int // -1 when the total size is not known yet
	Connections int
	Speed       string // e.g. "3.4MiB/s", empty when not reported
	ETASec      int    // -1 when not reported
}

// readoutPattern matches "[#2089b0 12MiB/1.2GiB(1%) CN:16 DL:3.4MiB ETA:5m12s]"
var readoutPattern = regexp.MustCompile(
	`\[#([0-9a-fA-F]+)\s+([\d.]+[KMGT]?i?B)/([\d.]+[KMGT]?i?B)(?:\((\d+)%\))?` +
		`(?:\s+CN:(\d+))?(?:\s+SD:\d+)?(?:\s+DL:([\d.]+[KMGT]?i?B))?(?:\s+UL:[\d.]+[KMGT]?i?B(?:\([^)]*\))?)?(?:\s+ETA:(\w+))?\]`)

// ParseProgress extracts progress from an aria2c readout line
func ParseProgress(line string) (Progress, bool) {
	m := readoutPattern.FindStringSubmatch(line)
	if m == nil {
		return Progress{}, false
	}

	p := Progress{
		GID:     m[1],
		Percent: -1,
		ETASec:  -1,
	}
	p.Completed = parseSize(m[2])
	p.Total = parseSize(m[3])

	if m[4] != "" {
		if v, err := strconv.Atoi(m[4]); err == nil {
			p.Percent = v
		}
	} else if p.Total > 0 {
		p.Percent = int(p.Completed * 100 / p.Total)
	}
	if m[5] != "" {
		p.Connections, _ = strconv.Atoi(m[5])
	}
	if m[6] != "" {
		p.Speed = m[6] + "/s"
	}
	if m[7] != "" {
		p.ETASec = parseETA(m[7])
	}
	return p, true
}

// parseSize converts aria2 sizes such as "1.2GiB" or "0B" to bytes
func parseSize(s string) int64 {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0
	}
	return int64(n)
}

// parseETA converts "1d2h", "5m12s" or "12s" to seconds
func parseETA(s string) int {
	days := 0
	if i := strings.IndexByte(s, 'd'); i > 0 {
		days, _ = strconv.Atoi(s[:i])
		s = s[i+1:]
	}
	var d time.Duration
	if s != "" {
		var err error
		if d, err = time.ParseDuration(s); err != nil {
			return -1
		}
	}
	return days*86400 + int(d.Seconds())
}
