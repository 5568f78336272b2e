package runner

import "time"

// TestCase queues one manifest and checks what the worker made of it.
type TestCase struct {
	Name string `json:"name"`
	// Manifest is relative to the cases directory
	Manifest string `json:"manifest"`
	// Validate queues a validate request instead of a build
	Validate bool         `json:"validate,omitempty"`
	Expect   Expectations `json:"expect"`
}

// Expectations defines what to check once the request settles
type Expectations struct {
	// Status is "completed" or "failed"
	Status string `json:"status"`

	// ErrorContains applies to failed requests
	ErrorContains string `json:"error_contains,omitempty"`

	// Files maps a datapack path to substrings its content must contain
	Files map[string][]string `json:"files,omitempty"`
	// Missing lists paths that must not be in the build
	Missing []string `json:"missing,omitempty"`
	// LayoutLines maps a namespace to its exact number of layout commands
	LayoutLines map[string]int `json:"layout_lines,omitempty"`
}

// TestResult contains the outcome of one case
type TestResult struct {
	Name      string
	RequestID string
	BuildID   string
	Success   bool
	Failures  []string
	Error     error
	Duration  time.Duration
}
