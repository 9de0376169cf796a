package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"lorgn/interpreter-go/pkg/driver"
)

func (c *cli) runDepsInstall() int {
	manifest, err := loadManifestFrom("")
	if err != nil {
		fmt.Fprintf(c.stderr, "unable to locate %s: %v\n", driver.ManifestFileName, err)
		return 1
	}
	cacheDir, err := resolveLorgnHome()
	if err != nil {
		fmt.Fprintf(c.stderr, "failed to resolve LORGN_HOME: %v\n", err)
		return 1
	}

	fmt.Fprintf(c.stdout, "Manifest: %s\n", manifest.Path)
	fmt.Fprintf(c.stdout, "Root package: %s\n", manifest.Name)
	fmt.Fprintf(c.stdout, "Dependencies: %d\n", len(manifest.Dependencies))
	fmt.Fprintf(c.stdout, "Cache directory: %s\n", cacheDir)

	lockPath := lockfilePath(manifest)
	lock, err := driver.LoadLockfile(lockPath)
	lockCreated := false
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			fmt.Fprintf(c.stderr, "lockfile root %q does not match manifest name %q\n", lock.Root, manifest.Name)
			return 1
		}
	case errors.Is(err, os.ErrNotExist):
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
		lockCreated = true
	default:
		fmt.Fprintf(c.stderr, "failed to read lockfile: %v\n", err)
		return 1
	}
	lock.Path = lockPath
	lock.Tool = cliToolVersion

	program, err := driver.NewLoader(driver.NewGitFetcher(cacheDir), lock).Load(context.Background(), manifest)
	if err != nil {
		fmt.Fprintf(c.stderr, "failed to resolve dependencies: %v\n", err)
		return 1
	}

	changed := false
	for _, dep := range program.Dependencies {
		if lock.Put(&driver.LockedPackage{Name: dep.Name, Source: dep.Source, Commit: dep.Commit}) {
			changed = true
			fmt.Fprintf(c.stdout, "Locked %s %s\n", dep.Name, dep.Source)
		}
	}

	if changed || lockCreated {
		if err := driver.WriteLockfile(lock, lockPath); err != nil {
			fmt.Fprintf(c.stderr, "failed to write lockfile: %v\n", err)
			return 1
		}
		fmt.Fprintf(c.stdout, "Wrote %s\n", lockPath)
	} else {
		fmt.Fprintln(c.stdout, "Lockfile up to date")
	}
	return 0
}
