package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// envelope mirrors the API response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// probeRunner checks a running API against dates whose answers are fixed.
type probeRunner struct {
	baseURL string
	client  *http.Client
	out     io.Writer

	passed int
	errors []string
}

func newProbeCmd(opts *options) *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Smoke-test a running festival API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &probeRunner{
				baseURL: strings.TrimRight(baseURL, "/"),
				client:  &http.Client{Timeout: timeout},
				out:     opts.out,
			}
			return runner.Run()
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the API")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Per-request timeout")
	return cmd
}

// Run executes every probe and returns an error if any failed.
func (p *probeRunner) Run() error {
	fmt.Fprintln(p.out, strings.Repeat("=", 46))
	fmt.Fprintln(p.out, "Festival API Probe")
	fmt.Fprintln(p.out, strings.Repeat("=", 46))
	fmt.Fprintf(p.out, "Base URL: %s\n", p.baseURL)

	resp, err := p.client.Get(p.baseURL + "/health")
	if err != nil {
		return fmt.Errorf("cannot connect to %s: %w", p.baseURL, err)
	}
	resp.Body.Close()

	p.probeHealth()
	p.probeCurrent()
	p.probeListings()
	p.probeErrors()

	fmt.Fprintln(p.out)
	fmt.Fprintf(p.out, "  Passed: %d\n", p.passed)
	fmt.Fprintf(p.out, "  Failed: %d\n", len(p.errors))
	if len(p.errors) > 0 {
		return fmt.Errorf("%d probe(s) failed", len(p.errors))
	}
	return nil
}

func (p *probeRunner) probeHealth() {
	p.section("Health")

	var health struct {
		Status string `json:"status"`
	}
	if err := p.getData("/health", &health); err != nil {
		p.fail("health", err.Error())
		return
	}
	if health.Status != "healthy" {
		p.fail("health", fmt.Sprintf("unexpected status %q", health.Status))
		return
	}
	p.pass("health check passed")
}

func (p *probeRunner) probeCurrent() {
	p.section("Current festival")

	cases := []struct {
		country, date string
		wantID        string
		wantPre       bool
	}{
		{"US", "2025-12-25", "christmas", false},
		{"GB", "2025-12-23", "christmas", true},
		{"US", "2024-11-28", "thanksgiving_us", false},
		{"IN", "2025-10-20", "diwali", false},
		{"MX", "2025-11-02", "dia_de_los_muertos", false},
	}

	for _, tc := range cases {
		name := fmt.Sprintf("%s %s", tc.country, tc.date)
		var current struct {
			Festival *struct {
				ID string `json:"id"`
			} `json:"festival"`
			IsPreFestival bool `json:"is_pre_festival"`
		}
		path := fmt.Sprintf("/api/v1/festivals/current?country=%s&date=%s", tc.country, tc.date)
		if err := p.getData(path, &current); err != nil {
			p.fail(name, err.Error())
			continue
		}
		if current.Festival == nil {
			p.fail(name, "no festival returned")
			continue
		}
		if current.Festival.ID != tc.wantID || current.IsPreFestival != tc.wantPre {
			p.fail(name, fmt.Sprintf("got %s (pre=%t), want %s (pre=%t)",
				current.Festival.ID, current.IsPreFestival, tc.wantID, tc.wantPre))
			continue
		}
		p.pass(fmt.Sprintf("%s -> %s", name, tc.wantID))
	}
}

func (p *probeRunner) probeListings() {
	p.section("Listings")

	for _, path := range []string{
		"/api/v1/festivals?year=2025",
		"/api/v1/festivals/active?country=US&date=2025-07-04",
		"/api/v1/festivals/upcoming?country=GB&date=2025-12-01",
		"/api/v1/festivals/month/2025/12?country=GB",
	} {
		var list []json.RawMessage
		if err := p.getData(path, &list); err != nil {
			p.fail(path, err.Error())
			continue
		}
		if len(list) == 0 {
			p.fail(path, "empty list")
			continue
		}
		p.pass(fmt.Sprintf("%s (%d)", path, len(list)))
	}
}

func (p *probeRunner) probeErrors() {
	p.section("Error handling")

	cases := []struct {
		path string
		want int
	}{
		{"/api/v1/festivals/current?date=not-a-date", http.StatusBadRequest},
		{"/api/v1/festivals/current?country=USA", http.StatusBadRequest},
		{"/api/v1/festivals/no_such_festival", http.StatusNotFound},
		{"/api/v1/festivals/month/2025/13", http.StatusBadRequest},
	}

	for _, tc := range cases {
		resp, err := p.client.Get(p.baseURL + tc.path)
		if err != nil {
			p.fail(tc.path, err.Error())
			continue
		}
		resp.Body.Close()
		if resp.StatusCode != tc.want {
			p.fail(tc.path, fmt.Sprintf("HTTP %d, want %d", resp.StatusCode, tc.want))
			continue
		}
		p.pass(fmt.Sprintf("%s -> %d", tc.path, tc.want))
	}
}

// getData fetches path and decodes the envelope's data into target.
func (p *probeRunner) getData(path string, target any) error {
	resp, err := p.client.Get(p.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	if !env.Success {
		msg := fmt.Sprintf("HTTP %d", resp.StatusCode)
		if env.Error != nil {
			msg = env.Error.Message
		}
		return fmt.Errorf("API error: %s", msg)
	}
	return json.Unmarshal(env.Data, target)
}

func (p *probeRunner) section(name string) {
	fmt.Fprintf(p.out, "\n--- %s ---\n", name)
}

func (p *probeRunner) pass(msg string) {
	p.passed++
	fmt.Fprintf(p.out, "  ✓ %s\n", msg)
}

func (p *probeRunner) fail(context, msg string) {
	errStr := fmt.Sprintf("%s: %s", context, msg)
	p.errors = append(p.errors, errStr)
	fmt.Fprintf(p.out, "  ✗ %s\n", errStr)
}
