//go:build mage

// Package main provides build targets for faktor using Mage.
//
// Usage:
//
//	mage build      Compile the faktor binary to bin/
//	mage test:all   Run all tests
//	mage test:race  Run all tests with the race detector
//	mage test:cover Write a coverage profile to bin/cover.out
//	mage lint       Run golangci-lint
//	mage vet        Run go vet
//	mage clean      Remove build artifacts
//	mage install    Install faktor to GOPATH/bin
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "faktor"
	binaryDir  = "bin"
	cmdDir     = "./cmd/faktor"
)

// Default target when mage runs without arguments.
var Default = Build

// Build compiles the faktor binary to bin/, stamping the version from git
// when available.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	ldflags := "-X main.version=" + gitVersion()
	return sh.RunV(binGo, "build", "-v", "-ldflags", ldflags, "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// gitVersion describes HEAD, "dev" outside a git checkout.
func gitVersion() string {
	out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || strings.TrimSpace(out) == "" {
		return "dev"
	}
	return strings.TrimSpace(out)
}
