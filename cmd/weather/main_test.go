package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Siphelele-Maphumulo/WeatherApp/pkg/view"
)

const durbanBody = `{"name":"Durban","sys":{"country":"ZA"},"weather":[{"main":"Clear","description":"clear sky"}],"main":{"temp":22.5},"wind":{"speed":3.1},"clouds":{"all":10}}`

func setEnv(t *testing.T, baseURL string) {
	t.Helper()
	t.Setenv("OPENWEATHER_API_KEY", "test-key")
	t.Setenv("WEATHER_DEFAULT_CITY", "")
	t.Setenv("WEATHER_BASE_URL", baseURL)
	t.Setenv("WEATHER_HTTP_TIMEOUT", "")
	t.Setenv("WEATHER_TEST_FILE", filepath.Join("..", "..", "weather.weather.json"))
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expected    options
		expectError bool
	}{
		{name: "no args", args: nil, expected: options{}},
		{name: "city only", args: []string{"Cape Town"}, expected: options{city: "Cape Town"}},
		{name: "flags", args: []string{"-once", "-test", "-debug"}, expected: options{once: true, test: true, debug: true}},
		{name: "city with flags", args: []string{"-debug", "Paris", "-once"}, expected: options{city: "Paris", once: true, debug: true}},
		{name: "help", args: []string{"--help"}, expected: options{help: true}},
		{name: "unknown flag", args: []string{"-provider=openmeteo"}, expectError: true},
		{name: "two cities", args: []string{"Paris", "Rome"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseArgs(tt.args)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error, got %+v", result)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("parseArgs(%q) = %+v, want %+v", tt.args, result, tt.expected)
			}
		})
	}
}

func TestRun_OnceWithTestData(t *testing.T) {
	setEnv(t, "http://127.0.0.1:1")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-once", "-test"}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr.String())
	}

	out := stdout.String()
	for _, want := range []string{"Weather App", "Loading...", "Durban, ZA", "23°C", "3.1 m/s", "clear sky", "10%"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, prompt) {
		t.Errorf("one-shot mode should not prompt:\n%s", out)
	}
}

func TestRun_OnceNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()
	setEnv(t, server.URL)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"Atlantis", "-once"}, strings.NewReader(""), &stdout, &stderr)
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stdout.String(), "City not found") {
		t.Errorf("expected error text in output:\n%s", stdout.String())
	}
}

func TestRun_Interactive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("appid") != "test-key" {
			t.Errorf("expected configured API key, got %q", r.URL.Query().Get("appid"))
		}
		if r.URL.Query().Get("q") != "Durban" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(durbanBody))
	}))
	defer server.Close()
	setEnv(t, server.URL)

	var stdout, stderr bytes.Buffer
	stdin := strings.NewReader("Atlantis\n   \nquit\n")
	code := run(context.Background(), nil, stdin, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}

	out := stdout.String()
	for _, want := range []string{"Durban, ZA", "City not found", prompt} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRun_BadArgs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"-bogus"}, strings.NewReader(""), &stdout, &stderr); code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(stderr.String(), "Usage:") {
		t.Errorf("expected usage on stderr, got %q", stderr.String())
	}
}

func TestRun_OnceMalformedSnapshot(t *testing.T) {
	setEnv(t, "http://127.0.0.1:1")
	fixture := filepath.Join(t.TempDir(), "empty.json")
	body := `{"name":"Durban","sys":{"country":"ZA"},"weather":[],"main":{"temp":22.5},"wind":{"speed":3.1},"clouds":{"all":10}}`
	if err := os.WriteFile(fixture, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WEATHER_TEST_FILE", fixture)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-once", "-test"}, strings.NewReader(""), &stdout, &stderr)
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stdout.String(), view.ErrMalformedSnapshot.Error()) {
		t.Errorf("expected rendering fault in output:\n%s", stdout.String())
	}
}

// endlessReader never reaches EOF, like an idle terminal that keeps typing.
type endlessReader struct{}

func (endlessReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 'x'
		if i%8 == 7 {
			p[i] = '\n'
		}
	}
	return len(p), nil
}

func TestReadLines_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	lines := readLines(ctx, endlessReader{}, zap.NewNop())

	if _, ok := <-lines; !ok {
		t.Fatal("expected a line before cancel")
	}
	cancel()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-lines:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("reader goroutine did not stop after cancel")
		}
	}
}

