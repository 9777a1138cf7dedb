package api

import (
	"bytes"
	"encoding/json"
	"time"
)

// ResultType tells which panels of a Result are meaningful.
type ResultType string

const (
	ResultCode     ResultType = "code"
	ResultQuestion ResultType = "question"
)

// Query is the request body sent to the analysis service.
type Query struct {
	Query string `json:"query"`
}

type ImprovedVersion struct {
	Version     int    `json:"version"`
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
}

// Result is the JSON envelope returned by the analysis service.
type Result struct {
	Type             ResultType        `json:"type"`
	Answer           string            `json:"answer,omitempty"`
	Error            ErrorText         `json:"error,omitempty"`
	CorrectedCode    string            `json:"corrected_code,omitempty"`
	ImprovedVersions []ImprovedVersion `json:"improved_versions,omitempty"`
	BestVersion      int               `json:"best_version,omitempty"`
	ExampleCode      string            `json:"example_code,omitempty"`
	BestPractices    []string          `json:"best_practices,omitempty"`
	Explanation      string            `json:"explanation,omitempty"`
	Documentation    string            `json:"documentation,omitempty"`
}

// Best returns the improved version flagged as best_version, if any.
func (r Result) Best() (ImprovedVersion, bool) {
	for _, v := range r.ImprovedVersions {
		if v.Version == r.BestVersion {
			return v, true
		}
	}
	return ImprovedVersion{}, false
}

// Version looks up an improved version by its number.
func (r Result) Version(n int) (ImprovedVersion, bool) {
	for _, v := range r.ImprovedVersions {
		if v.Version == n {
			return v, true
		}
	}
	return ImprovedVersion{}, false
}

// ErrorText is the service's "error" field. The canonical shape is a plain
// string; object-shaped payloads ({"message": ...}) collapse to their message.
type ErrorText string

func (e *ErrorText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*e = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*e = ErrorText(s)
		return nil
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*e = ErrorText(obj.Message)
	return nil
}

// Review is a stored query/result pair.
type Review struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Result    Result    `json:"result"`
	Hash      string    `json:"hash"`
	CreatedAt time.Time `json:"created_at"`
}

// ListQuery filters history listings.
type ListQuery struct {
	Since time.Time
	Until time.Time
	Limit int
}
