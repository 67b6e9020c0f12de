// Package main provides tests for the LeapUML CLI.
package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapuml/internal/cli"
)

func TestVersionCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("version command error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "LeapUML") {
		t.Errorf("version output should contain 'LeapUML', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	output := buf.String()
	expectedCommands := []string{"init", "list", "show", "render", "export", "edit", "saved", "serve"}
	for _, expected := range expectedCommands {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestShowCommandAgainstProject(t *testing.T) {
	tmpDir := t.TempDir()

	// Scaffold a project, then point every command at it explicitly.
	initCmd := cli.NewRootCmd()
	initBuf := new(bytes.Buffer)
	initCmd.SetOut(initBuf)
	initCmd.SetErr(initBuf)
	initCmd.SetArgs([]string{"init", tmpDir, "--example"})
	if err := initCmd.Execute(); err != nil {
		t.Fatalf("init command error = %v", err)
	}

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{
		"show", filepath.Join(tmpDir, "diagrams", "example.json"),
		"--project-dir", tmpDir,
		"--workspace", ":memory:",
		"--output", "markdown",
	})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("show command error = %v", err)
	}

	output := buf.String()
	for _, expected := range []string{"Shape", "Circle", "inheritance"} {
		if !strings.Contains(output, expected) {
			t.Errorf("show output should contain %q, got: %s", expected, output)
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"frobnicate"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for unknown command")
	}
}
