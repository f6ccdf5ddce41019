// Package testutil holds helpers for tests that need the Firestore emulator.
package testutil

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"
)

const (
	FirestoreEmulatorHost = "127.0.0.1:7130"
	ProjectID             = "demo-test-project"
)

// EmulatorAvailable checks if the Firestore emulator is reachable.
func EmulatorAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", FirestoreEmulatorHost)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// SkipIfEmulatorUnavailable skips the test if the Firestore emulator is not running.
func SkipIfEmulatorUnavailable(t *testing.T) {
	t.Helper()
	if !EmulatorAvailable() {
		t.Skip("Firestore emulator not available")
	}
}

// SetupEmulator points the Firestore SDK at the emulator for the test's duration.
func SetupEmulator(t *testing.T) {
	t.Helper()
	t.Setenv("FIRESTORE_EMULATOR_HOST", FirestoreEmulatorHost)
}

// ClearFirestore removes all documents from the Firestore emulator.
func ClearFirestore(t *testing.T) {
	t.Helper()
	url := fmt.Sprintf("http://%s/emulator/v1/projects/%s/databases/(default)/documents",
		FirestoreEmulatorHost, ProjectID)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodDelete, url, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("failed to clear Firestore: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
}
