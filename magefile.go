//go:build mage
// +build mage

package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary       = "tree-sync"
	mainPackage  = "./cmd/tree-sync"
	coverProfile = "coverage.out"
	coverReport  = "coverage.html"
)

// Default target to run when none is specified
var Default = Build

// Build compiles the tree-sync binary into the working directory
func Build() error {
	fmt.Println("Building " + binary + "...")
	return sh.Run("go", "build", "-o", binary, mainPackage)
}

// Install installs tree-sync into GOBIN
func Install() error {
	fmt.Println("Installing " + binary + "...")
	return sh.Run("go", "install", mainPackage)
}

// Test runs the unit tests with the race detector and writes a coverage profile
func Test() error {
	fmt.Println("Running unit tests...")
	return goTest("-v", "-coverprofile="+coverProfile, "./...")
}

// Integration runs the tagged engine tests that copy whole generated trees
func Integration() error {
	fmt.Println("Running integration tests...")
	return goTest("-tags=integration", "./internal/syncengine/...")
}

// Lint runs golangci-lint with the repository config
func Lint() error {
	fmt.Println("Linting...")
	return run(context.Background(), "golangci-lint", "run", "-c", ".golangci.yml", "./...")
}

// Nils runs nilaway over every package
func Nils() error {
	fmt.Println("Checking for nil dereferences...")
	return run(context.Background(), "nilaway", "./...")
}

// Fmt formats the code
func Fmt() error {
	fmt.Println("Formatting code...")

	err := sh.Run("gofmt", "-s", "-w", ".")
	if err != nil {
		return err
	}

	return sh.Run("goimports", "-w", ".")
}

// CI fails fast on the first lint issue or test failure, shuffling test order
func CI() error {
	fmt.Println("Running CI checks...")

	err := run(context.Background(),
		"golangci-lint", "run",
		"-c", ".golangci.yml",
		"--fix=false",
		"--max-issues-per-linter=1",
		"--max-same-issues=1",
		"./...",
	)
	if err != nil {
		return err
	}

	err = goTest("-timeout=30s", "-failfast", "-shuffle=on", "./...")
	if err != nil {
		return err
	}

	mg.Deps(Integration, Nils)

	return nil
}

// Check formats, lints and tests everything
func Check() {
	mg.SerialDeps(Fmt, Lint, Test, Integration, Nils)
}

// Coverage renders the coverage profile as HTML and tries to open it
func Coverage() error {
	mg.Deps(Test)

	fmt.Println("Generating coverage report...")

	err := sh.Run("go", "tool", "cover", "-html="+coverProfile, "-o", coverReport)
	if err != nil {
		return err
	}

	opener := "xdg-open"
	if runtime.GOOS == "darwin" {
		opener = "open"
	}

	if exec.Command(opener, coverReport).Run() != nil {
		fmt.Println("Coverage report generated at " + coverReport)
	}

	return nil
}

// Clean removes the binary and coverage artifacts
func Clean() {
	fmt.Println("Cleaning...")

	for _, path := range []string{binary, coverProfile, coverReport} {
		_ = os.Remove(path)
	}
}

// goTest runs go test with the race detector on.
func goTest(args ...string) error {
	return run(context.Background(), "go", append([]string{"test", "-race"}, args...)...)
}

// run executes a command with the terminal attached.
func run(c context.Context, command string, arg ...string) error {
	cmd := exec.CommandContext(c, command, arg...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
