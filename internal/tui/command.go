package tui

import (
	"fmt"
	"strconv"
	"strings"
)

// Command represents a parsed command.
type Command struct {
	Name string
	Args string
}

// ParseCommand parses a command string (without the leading ':').
func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)
	parts := strings.SplitN(input, " ", 2)
	cmd := Command{Name: strings.ToLower(parts[0])}
	if len(parts) > 1 {
		cmd.Args = strings.TrimSpace(parts[1])
	}
	return cmd
}

// Amount parses the command's argument as a positive money amount.
func (c Command) Amount() (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(c.Args, ",", "."), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s: amount must be a positive number", c.Name)
	}
	return v, nil
}

// Page parses the command's argument as a 1-based page number.
func (c Command) Page() (int, error) {
	n, err := strconv.Atoi(c.Args)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s: page must be a number from 1", c.Name)
	}
	return n, nil
}
