//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestLiveness(t *testing.T) {
	resp := doGet(t, "/livez", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("livez: status %d", resp.StatusCode)
	}

	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health.Status != "healthy" {
		t.Errorf("livez status = %q, want healthy", health.Status)
	}
}

func TestReadiness(t *testing.T) {
	resp := doGet(t, "/readyz", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("readyz: status %d", resp.StatusCode)
	}

	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health.Status != "healthy" {
		t.Errorf("readyz status = %q, want healthy", health.Status)
	}
	if _, ok := health.Checks["postgres"]; !ok {
		t.Error("readyz missing postgres check")
	}
}
