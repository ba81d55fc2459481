package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

type step struct {
	name    string
	install string
	cmd     string
	args    []string
}

var steps = []step{
	{name: "go fmt", cmd: "go", args: []string{"fmt", "./..."}},
	{name: "go vet", cmd: "go", args: []string{"vet", "./..."}},
	{name: "golangci-lint", cmd: "golangci-lint", args: []string{"run", "./..."}},
	{name: "staticcheck", install: "honnef.co/go/tools/cmd/staticcheck@latest", cmd: "staticcheck", args: []string{"./..."}},
	{name: "gofumpt", install: "mvdan.cc/gofumpt@latest", cmd: "gofumpt", args: []string{"-l", "-w", "."}},
}

type runner func(cmd string, args []string) error

func runCommand(cmd string, args []string) error {
	command := exec.Command(cmd, args...)
	command.Stdout = os.Stdout
	command.Stderr = os.Stderr
	if err := command.Run(); err != nil {
		return fmt.Errorf("error running %s %v: %v", cmd, args, err)
	}
	return nil
}

// runSteps runs every step not named in skip and returns how many failed.
// A failing step does not stop the ones after it.
func runSteps(w io.Writer, run runner, skip map[string]bool) int {
	failed := 0
	for _, s := range steps {
		if skip[s.name] {
			fmt.Fprintf(w, "Skipping %s\n", s.name)
			continue
		}
		fmt.Fprintf(w, "Running %s...\n", s.name)
		if s.install != "" {
			if err := run("go", []string{"install", s.install}); err != nil {
				fmt.Fprintln(w, err)
				failed++
				continue
			}
		}
		if err := run(s.cmd, s.args); err != nil {
			fmt.Fprintln(w, err)
			failed++
		}
	}
	return failed
}

func parseSkip(s string) map[string]bool {
	out := map[string]bool{}
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out[name] = true
		}
	}
	return out
}

func main() {
	skip := flag.String("skip", "", "comma-separated steps to skip, e.g. staticcheck,gofumpt")
	flag.Parse()

	if n := runSteps(os.Stdout, runCommand, parseSkip(*skip)); n > 0 {
		fmt.Printf("%d check(s) failed\n", n)
		os.Exit(1)
	}
	fmt.Println("All checks completed!")
}
