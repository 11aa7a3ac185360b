package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"radbound/app"
	"radbound/domain/restriction"
)

const unknownCommand = "Unknown command! Valid commands: run, d, generate."

// shell reads one instruction per line. A failing instruction prints its
// error and the loop carries on with the next line.
type shell struct {
	service *app.ProofService
}

func newShell(service *app.ProofService) *shell {
	return &shell{service: service}
}

// Run processes instructions until in is exhausted or quit is entered.
func (s *shell) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Enter instruction: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if quit := s.execute(ctx, line, out); quit {
			return nil
		}
	}
}

func (s *shell) execute(ctx context.Context, line string, out io.Writer) bool {
	name, args, err := parseInstruction(line)
	if err != nil {
		fmt.Fprintln(out, err)
		return false
	}

	switch name {
	case "run":
		if len(args) != 1 {
			fmt.Fprintln(out, "Failed to parse arguments! Expected format: run(case)")
			return false
		}
		if _, err := s.service.Run(ctx, args[0], out); err != nil {
			fmt.Fprintln(out, err)
		}
	case "d":
		if len(args) != 2 {
			fmt.Fprintln(out, "Failed to parse arguments! Expected format: D(a,x)")
			return false
		}
		a, errA := strconv.ParseFloat(args[0], 64)
		x, errX := strconv.ParseFloat(args[1], 64)
		if errA != nil || errX != nil {
			fmt.Fprintln(out, "Failed to parse arguments! Expected format: D(a,x)")
			return false
		}
		if _, err := s.service.Query(a, x, out); err != nil {
			fmt.Fprintln(out, err)
		}
	case "generate":
		if _, err := s.service.Generate(out); err != nil {
			fmt.Fprintln(out, err)
		}
	case "quit", "exit":
		return true
	default:
		fmt.Fprintln(out, unknownCommand)
	}
	return false
}

// parseInstruction accepts both `run(case)` and `run case`.
func parseInstruction(line string) (string, []string, error) {
	if strings.Contains(line, "(") {
		return restriction.ParseFunctionLike(line)
	}
	fields := strings.Fields(line)
	return strings.ToLower(fields[0]), fields[1:], nil
}
