package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"lorgn/interpreter-go/pkg/driver"
)

const cliToolVersion = "lorgn-cli 0.1.0-dev"

var errManifestNotFound = errors.New(driver.ManifestFileName + " not found")

type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	trace  bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	c := &cli{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	return c.run(args)
}

func (c *cli) run(args []string) int {
	args = c.parseGlobalFlags(args)
	if len(args) == 0 {
		c.printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		c.printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(c.stdout, cliToolVersion)
		return 0
	case "run":
		return c.runEntry(args[1:])
	case "eval":
		return c.runEval(args[1:])
	case "inspect":
		return c.runInspect(args[1:])
	case "deps":
		return c.runDeps(args[1:])
	case "repl":
		return c.runRepl(args[1:])
	default:
		fmt.Fprintf(c.stderr, "unknown command %q\n", args[0])
		c.printUsage()
		return 1
	}
}

// parseGlobalFlags strips flags accepted by every subcommand.
func (c *cli) parseGlobalFlags(args []string) []string {
	out := args[:0:0]
	for _, arg := range args {
		if arg == "--trace" {
			c.trace = true
			continue
		}
		out = append(out, arg)
	}
	return out
}

func (c *cli) printUsage() {
	fmt.Fprintln(c.stderr, "Usage:")
	fmt.Fprintln(c.stderr, "  lorgn run [lorgn.yml|dir]")
	fmt.Fprintln(c.stderr, "  lorgn eval <expr.json|expr.yml|->")
	fmt.Fprintln(c.stderr, "  lorgn inspect [lorgn.yml|dir]")
	fmt.Fprintln(c.stderr, "  lorgn deps install")
	fmt.Fprintln(c.stderr, "  lorgn repl")
	fmt.Fprintln(c.stderr, "Flags:")
	fmt.Fprintln(c.stderr, "  --trace   log function calls to stderr")
}

func (c *cli) runDeps(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(c.stderr, "lorgn deps requires a subcommand (install)")
		return 1
	}
	switch args[0] {
	case "install":
		if len(args) > 1 {
			fmt.Fprintf(c.stderr, "lorgn deps install does not take arguments (received %s)\n", strings.Join(args[1:], " "))
			return 1
		}
		return c.runDepsInstall()
	default:
		fmt.Fprintf(c.stderr, "unknown deps subcommand %q\n", args[0])
		return 1
	}
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		start = cwd
	}
	absStart, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("resolve manifest search path %q: %w", start, err)
	}
	if info, statErr := os.Stat(absStart); statErr == nil && !info.IsDir() {
		return driver.LoadManifest(absStart)
	}
	manifestPath, err := findManifest(absStart)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(manifestPath)
}

func findManifest(start string) (string, error) {
	dir := start
	for {
		candidate := filepath.Join(dir, driver.ManifestFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errManifestNotFound
		}
		dir = parent
	}
}

func resolveLorgnHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv("LORGN_HOME")); home != "" {
		abs, err := filepath.Abs(home)
		if err != nil {
			return "", fmt.Errorf("resolve LORGN_HOME %q: %w", home, err)
		}
		return abs, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(userHome, ".lorgn"), nil
}

func lockfilePath(manifest *driver.Manifest) string {
	return filepath.Join(manifest.Dir(), driver.LockfileName)
}

func loadLockfileForManifest(manifest *driver.Manifest) (*driver.Lockfile, error) {
	if manifest == nil {
		return nil, nil
	}
	lock, err := driver.LoadLockfile(lockfilePath(manifest))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if manifestHasGitDependencies(manifest) {
				return nil, fmt.Errorf("%s missing for %q; run `lorgn deps install`", driver.LockfileName, manifest.Name)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read lockfile %s: %w", lockfilePath(manifest), err)
	}
	if lock.Root != manifest.Name {
		return nil, fmt.Errorf("lockfile root %q does not match manifest name %q", lock.Root, manifest.Name)
	}
	return lock, nil
}

func manifestHasGitDependencies(manifest *driver.Manifest) bool {
	if manifest == nil {
		return false
	}
	for _, dep := range manifest.Dependencies {
		if dep.IsGit() {
			return true
		}
	}
	return false
}
