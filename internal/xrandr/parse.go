package xrandr

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/frudas24/dualhead/internal/monitor"
)

var geometryRe = regexp.MustCompile(`^(\d+)x(\d+)\+(-?\d+)\+(-?\d+)$`)

// ParseQuery reads `xrandr --query` output and returns outputs in the order listed.
//
// Output header lines start in column zero:
//
//	DP1 connected primary 2560x1440+0+0 (normal left inverted right x axis y axis) 597mm x 336mm
//	DP-2 disconnected (normal left inverted right x axis y axis)
//	VIRTUAL1 unknown connection (normal left inverted right x axis y axis)
//
// Indented mode lines and the "Screen N:" summary are skipped.
func ParseQuery(r io.Reader) ([]monitor.Output, error) {
	var outputs []monitor.Output
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || line[0] == ' ' || line[0] == '\t' || strings.HasPrefix(line, "Screen ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		out := monitor.Output{
			Name:  fields[0],
			State: monitor.ParseConnectionState(fields[1]),
		}
		for _, f := range fields[2:] {
			if f == "primary" {
				out.Primary = true
				continue
			}
			if strings.HasPrefix(f, "(") {
				break
			}
			if mode, ok := parseGeometry(f); ok {
				out.Mode = &mode
			}
		}
		outputs = append(outputs, out)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read xrandr output: %w", err)
	}
	return outputs, nil
}

// parseGeometry parses a WxH+X+Y token.
func parseGeometry(token string) (monitor.Mode, bool) {
	m := geometryRe.FindStringSubmatch(token)
	if m == nil {
		return monitor.Mode{}, false
	}
	vals := make([]int, 4)
	for i := range vals {
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return monitor.Mode{}, false
		}
		vals[i] = v
	}
	return monitor.Mode{Width: vals[0], Height: vals[1], X: vals[2], Y: vals[3]}, true
}
