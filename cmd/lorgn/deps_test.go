package main

import (
	"path/filepath"
	"strings"
	"testing"

	"lorgn/interpreter-go/pkg/driver"
)

const constsModule = `
type: Module
items:
  - {type: Export, names: [value]}
  - type: FunctionDefinition
    name: value
    body:
      type: Block
      expressions:
        - {type: StringLiteral, value: from-git}
`

func writeGitConsumer(t *testing.T, root string) (app, rev string) {
	t.Helper()
	repo := filepath.Join(root, "consts")
	writeFile(t, filepath.Join(repo, driver.ManifestFileName), "name: consts\nmodules:\n  consts: consts.yml\n")
	writeFile(t, filepath.Join(repo, "consts.yml"), constsModule)
	rev = initGitRepo(t, repo)

	writeFile(t, filepath.Join(root, "shared", driver.ManifestFileName), "name: shared\n")

	app = filepath.Join(root, "app")
	writeFile(t, filepath.Join(app, driver.ManifestFileName), `
name: app
entry: main.main
modules:
  main: main.json
dependencies:
  shared: ../shared
  consts:
    git: `+repo+`
    branch: master
`)
	writeFile(t, filepath.Join(app, "main.json"), `{"type": "Module", "items": [
  {"type": "FunctionDefinition", "name": "main", "body": {"type": "Block", "expressions": [
    {"type": "FunctionCall", "path": {"module": "consts", "item": "value"}}
  ]}}
]}`)
	return app, rev
}

func TestDepsInstallWritesLockfile(t *testing.T) {
	root := t.TempDir()
	app, rev := writeGitConsumer(t, root)
	t.Setenv("LORGN_HOME", filepath.Join(root, "home"))
	chdir(t, app)

	c := newTestCLI("")
	if code := c.run([]string{"deps", "install"}); code != 0 {
		t.Fatalf("deps install returned exit code %d, stderr: %s", code, c.err)
	}
	if !strings.Contains(c.out.String(), "Wrote "+filepath.Join(app, driver.LockfileName)) {
		t.Fatalf("unexpected stdout %q", c.out)
	}

	lock, err := driver.LoadLockfile(filepath.Join(app, driver.LockfileName))
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	if lock.Root != "app" || len(lock.Packages) != 2 {
		t.Fatalf("unexpected lockfile %#v", lock)
	}
	consts, ok := lock.Find("consts")
	if !ok || consts.Commit != rev {
		t.Fatalf("consts entry unexpected: %#v", consts)
	}
	shared, ok := lock.Find("shared")
	if !ok || shared.Source != "path:../shared" {
		t.Fatalf("shared entry unexpected: %#v", shared)
	}

	again := newTestCLI("")
	if code := again.run([]string{"deps", "install"}); code != 0 {
		t.Fatalf("second install returned exit code %d, stderr: %s", code, again.err)
	}
	if !strings.Contains(again.out.String(), "Lockfile up to date") {
		t.Fatalf("expected no lockfile changes, got %q", again.out)
	}

	runner := newTestCLI("")
	if code := runner.run([]string{"run"}); code != 0 {
		t.Fatalf("run returned exit code %d, stderr: %s", code, runner.err)
	}
	if got := runner.out.String(); got != "\"from-git\"\n" {
		t.Fatalf("stdout = %q", got)
	}
}

func TestRunRequiresLockfileForGitDependencies(t *testing.T) {
	root := t.TempDir()
	app, _ := writeGitConsumer(t, root)
	t.Setenv("LORGN_HOME", filepath.Join(root, "home"))

	c := newTestCLI("")
	if code := c.run([]string{"run", app}); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(c.err.String(), "run `lorgn deps install`") {
		t.Fatalf("unexpected stderr %q", c.err)
	}
}
