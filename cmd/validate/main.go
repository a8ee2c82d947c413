// Package main provides a CLI tool for smoke-testing a running payoff server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

type endpoint struct {
	path     string
	method   string
	body     string
	contains []string
}

// samplePlan is small enough to pay off in a few months under every strategy
const samplePlan = `{
	"debts": [
		{"id": "card", "name": "Card", "balance": 900, "interestRate": 19.9, "minimumPayment": 35, "totalPayments": 36},
		{"id": "car", "name": "Car", "balance": 4000, "interestRate": 6.5, "minimumPayment": 180, "totalPayments": 48}
	],
	"monthlyBudget": 1200,
	"strategy": "snowball",
	"monthlyIncome": 5000
}`

var endpoints = []endpoint{
	{path: "/api/health", method: "GET", contains: []string{`"status":"ok"`}},
	{path: "/api/security", method: "GET", contains: []string{`"encrypted"`}},

	// Stored data
	{path: "/api/debts", method: "GET"},
	{path: "/api/budget", method: "GET", contains: []string{`"debtPercentage"`}},
	{path: "/api/plan", method: "GET", contains: []string{`"monthlyPlans"`}},
	{path: "/api/plan/compare", method: "GET", contains: []string{`"best"`}},

	// Ad-hoc scenarios
	{path: "/api/plan", method: "POST", body: samplePlan, contains: []string{`"monthlyPlans"`, `"recommendedPercentage":5`}},
	{path: "/api/plan/compare", method: "POST", body: samplePlan, contains: []string{`"avalanche"`, `"proportional"`}},
}

type result struct {
	status   int
	duration time.Duration
	err      error
}

func main() {
	url := flag.String("url", "http://localhost:8080", "Base URL of the server to validate")
	verbose := flag.Bool("v", false, "Verbose output")
	timeout := flag.Int("timeout", 10, "Request timeout in seconds")
	flag.Parse()

	client := &http.Client{
		Timeout: time.Duration(*timeout) * time.Second,
	}

	fmt.Printf("Validating server at %s\n", *url)
	fmt.Printf("Testing %d endpoints...\n\n", len(endpoints))

	var passed, failed int
	for _, ep := range endpoints {
		r := validateEndpoint(client, *url, ep)

		switch {
		case r.err != nil:
			failed++
			fmt.Printf("FAIL %s %s\n", ep.method, ep.path)
			fmt.Printf("     Error: %v\n", r.err)
		case r.status == http.StatusLocked:
			failed++
			fmt.Printf("FAIL %s %s\n", ep.method, ep.path)
			fmt.Printf("     Data is encrypted and locked; unlock via POST /api/security/unlock\n")
		case r.status != http.StatusOK:
			failed++
			fmt.Printf("FAIL %s %s\n", ep.method, ep.path)
			fmt.Printf("     Status: %d (expected 200)\n", r.status)
		default:
			passed++
			if *verbose {
				fmt.Printf("PASS %s %s (%v)\n", ep.method, ep.path, r.duration)
			}
		}
	}

	fmt.Printf("\n========================================\n")
	fmt.Printf("Results: %d passed, %d failed\n", passed, failed)

	if failed > 0 {
		os.Exit(1)
	}
}

func validateEndpoint(client *http.Client, baseURL string, ep endpoint) result {
	start := time.Now()

	var reqBody io.Reader
	if ep.body != "" {
		reqBody = strings.NewReader(ep.body)
	}
	req, err := http.NewRequest(ep.method, baseURL+ep.path, reqBody)
	if err != nil {
		return result{err: fmt.Errorf("failed to create request: %w", err)}
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return result{err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return result{err: fmt.Errorf("failed to read body: %w", err)}
	}

	r := result{status: resp.StatusCode, duration: time.Since(start)}
	if r.status != http.StatusOK {
		return r
	}

	ct := resp.Header.Get("Content-Type")
	if !strings.Contains(ct, "application/json") {
		r.err = fmt.Errorf("wrong content type: got %q, expected application/json", ct)
		return r
	}

	var js interface{}
	if err := json.Unmarshal(body, &js); err != nil {
		r.err = fmt.Errorf("invalid JSON: %w", err)
		return r
	}

	// Compact so substring checks ignore indentation
	compact := strings.Join(strings.Fields(string(body)), "")
	for _, needle := range ep.contains {
		if !strings.Contains(compact, needle) {
			r.err = fmt.Errorf("missing expected content: %q", needle)
			return r
		}
	}

	return r
}
