package main

import (
	"os"
	"testing"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}

	expectedAppName := "GridQuest Server"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestInitializeServices(t *testing.T) {
	originalStageDir := *stageDir
	originalEventsDB := *eventsDB
	defer func() {
		*stageDir = originalStageDir
		*eventsDB = originalEventsDB
	}()

	if _, err := os.Stat("stages"); os.IsNotExist(err) {
		t.Skip("Skipping test - stages directory not found")
	}
	*stageDir = "stages"
	*eventsDB = "" // keep the test from creating an event log file

	gameService, err := initializeServices()
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	if gameService == nil {
		t.Fatal("Expected game service to be initialized")
	}
}

func TestInitializeServices_InvalidStageDir(t *testing.T) {
	originalStageDir := *stageDir
	*stageDir = "/non/existent/path"
	defer func() { *stageDir = originalStageDir }()

	_, err := initializeServices()
	if err == nil {
		t.Error("Expected error for non-existent stage directory")
	}
}

func TestFlagDefaults(t *testing.T) {
	// Test that flags have reasonable defaults
	if *port <= 0 || *port > 65535 {
		t.Errorf("Invalid default port: %d", *port)
	}

	if *host == "" {
		t.Error("Host should have a default value")
	}

	if *stageDir == "" {
		t.Error("Stage directory should have a default value")
	}

	if *sessionsDir == "" {
		t.Error("Sessions directory should have a default value")
	}
}

// Note: We can't easily test main(), runHTTPServer(), and runStdioMCPWithInternalServer()
// without significant mocking or refactoring, as they start servers and block.
// These functions would be better tested in integration tests that start actual servers
// and test their endpoints.

func TestServiceInitialization(t *testing.T) {
	originalStageDir := *stageDir
	originalEventsDB := *eventsDB
	defer func() {
		*stageDir = originalStageDir
		*eventsDB = originalEventsDB
	}()

	if _, err := os.Stat("stages"); os.IsNotExist(err) {
		t.Skip("Skipping test - stages directory not found")
	}
	*stageDir = "stages"
	*eventsDB = ""

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Service initialization panicked: %v", r)
		}
	}()

	if _, err := initializeServices(); err != nil {
		t.Logf("Service initialization failed as expected: %v", err)
	}
}
