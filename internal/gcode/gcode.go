// Package gcode holds the few printer commands the tools issue themselves
// and reads G-code scripts into single command lines.
package gcode

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Well-known commands
const (
	AutoHome        = "G28"
	AutoBedLeveling = "G29"
	SystemInfo      = "M115"
	ReportTemp      = "M105"
)

// Command describes a named command
type Command struct {
	Name        string
	Code        string
	Description string
}

// Commands lists the named commands in display order
var Commands = []Command{
	{Name: "home", Code: AutoHome, Description: "Move all axes to their endstops"},
	{Name: "level", Code: AutoBedLeveling, Description: "Probe the bed and build the leveling mesh"},
	{Name: "info", Code: SystemInfo, Description: "Report firmware name and capabilities"},
	{Name: "temp", Code: ReportTemp, Description: "Report hotend and bed temperatures"},
}

// Lookup returns the command with the given name
func Lookup(name string) (Command, bool) {
	for _, c := range Commands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// DisplayMessage returns the M117 command showing msg on the printer display.
// Line breaks in msg are replaced by spaces.
func DisplayMessage(msg string) string {
	msg = strings.NewReplacer("\r", " ", "\n", " ").Replace(msg)
	return "M117 " + strings.TrimSpace(msg)
}

// CleanLine strips comments and whitespace from one G-code line. It returns
// false for lines that carry no command.
func CleanLine(line string) (string, bool) {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	return line, line != ""
}

// Parse reads a G-code script and returns its commands without newlines.
func Parse(r io.Reader) ([]string, error) {
	var cmds []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)
	for scanner.Scan() {
		if cmd, ok := CleanLine(scanner.Text()); ok {
			cmds = append(cmds, cmd)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read gcode: %w", err)
	}
	return cmds, nil
}

// ParseFile reads the G-code script at path.
func ParseFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}
