package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
)

func TestSetupLogging_DisabledWithoutPath(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	logFile := setupLogging("")
	if logFile != nil {
		t.Error("Expected nil log file for empty path")
		logFile.Close()
	}

	if output := log.Writer(); output != io.Discard {
		t.Errorf("Expected log output to be io.Discard, got %v", output)
	}
}

func TestSetupLogging_WritesToFile(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	logPath := filepath.Join(t.TempDir(), "logs", "tilegame.log")
	logFile := setupLogging(logPath)
	if logFile == nil {
		t.Fatal("Expected non-nil log file")
	}
	defer logFile.Close()

	log.Println("Test log message")

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Failed to stat log file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected log file to contain content")
	}
}
