//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"PCBook/internal/laptop"
	"PCBook/internal/sample"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8080")

func TestSystem_E2E_Catalog(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	gen := sample.NewGenerator(uint64(time.Now().UnixNano()))
	l := gen.Laptop()
	l.ID = ""
	l.PriceUsd = 0.5

	var created struct {
		ID string `json:"id"`
	}
	doJSON(t, http.MethodPost, baseURL+"/laptops", map[string]any{"laptop": l}, &created, 201)
	if created.ID == "" {
		t.Fatalf("server did not assign an id")
	}
	doJSON(t, http.MethodPost, baseURL+"/laptops", map[string]any{"laptop": map[string]any{"id": "Invalid"}}, nil, 400)

	var got laptop.Laptop
	doJSON(t, http.MethodGet, baseURL+"/laptops/"+created.ID, nil, &got, 200)
	if got.Name != l.Name {
		t.Fatalf("name=%q want %q", got.Name, l.Name)
	}

	client := laptop.NewClient(baseURL)

	found := false
	err := client.SearchLaptops(ctx, &laptop.Filter{MaxPriceUsd: 1}, func(m *laptop.Laptop) error {
		if m.ID == created.ID {
			found = true
		}
		return nil
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !found {
		t.Fatalf("laptop %s missing from search results", created.ID)
	}

	res, err := client.RateLaptops(ctx, []laptop.Score{
		{LaptopID: created.ID, Score: 8},
		{LaptopID: created.ID, Score: 7.5},
		{LaptopID: created.ID, Score: 10},
	})
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	if len(res) != 3 || res[2].RatedCount != 3 || res[2].AverageScore != 8.5 {
		t.Fatalf("unexpected rating results: %+v", res)
	}

	if os.Getenv("E2E_RESTART_LAPTOP") == "1" {
		restartLaptopContainer(t, ctx)
		waitReady(t, ctx, baseURL+"/readyz")

		// the catalog lives in memory only
		if _, err := client.GetLaptop(ctx, created.ID); !errors.Is(err, laptop.ErrClientNotFound) {
			t.Fatalf("laptop survived restart: err=%v", err)
		}
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == 200 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func doJSON(t *testing.T, method, url string, body any, out any, want int) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		t.Fatalf("%s %s: status=%d want=%d", method, url, resp.StatusCode, want)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
