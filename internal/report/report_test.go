package report

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"newsverifier/internal/verify"
)

func sampleResult() verify.Result {
	return verify.Result{
		ID:                 "b0f4",
		Headline:           "Example City hosts major summit",
		CheckedAt:          time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
		AuthenticityScore:  55,
		VerificationStatus: verify.StatusPossiblyTrue,
		SourcesFound: []verify.MatchedSource{{
			SourceName:       "Reuters",
			Title:            "Example City hosts major summit",
			URL:              "https://www.reuters.com/world/summit",
			SimilarityScore:  100,
			Domain:           "reuters.com",
			ReputationWeight: 1,
		}},
		Summary: verify.Summary{
			WhatHappened:  "Based on verification, the headline appears to be related to: Example City hosts major summit",
			WhereHappened: "Location mentioned: Example City",
		},
		Details: verify.Details{
			TotalSourcesChecked: 12,
			MatchingSources:     1,
			FactCheckResults: []verify.FactCheckObservation{
				{Site: "snopes.com", ResultsFound: 2, Status: "Found related fact-checks"},
				{Site: "PolitiFact", Rating: "false", URL: "https://www.politifact.com/x"},
			},
			Reasoning: []string{"1 matching source(s)"},
			Errors:    map[string]string{"feeds": "timeout"},
		},
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Authenticity score: 55/100",
		"Status: Possibly True",
		"Where: Location mentioned: Example City",
		"[100%] Example City hosts major summit (Reuters, reuters.com, weight 1.00)",
		"snopes.com: 2 result(s), Found related fact-checks",
		`PolitiFact rated it "false" https://www.politifact.com/x`,
		"  - 1 matching source(s)",
		"Collector feeds failed: timeout",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "When:") {
		t.Errorf("empty summary fields should be omitted:\n%s", out)
	}
}

func TestSaveDocx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.docx")
	if err := SaveDocx(path, sampleResult()); err != nil {
		t.Fatalf("SaveDocx: %v", err)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open docx: %v", err)
	}
	defer zr.Close()

	var document string
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open document.xml: %v", err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read document.xml: %v", err)
		}
		document = string(data)
	}
	if document == "" {
		t.Fatal("document.xml missing from archive")
	}
	for _, want := range []string{"Headline Verification Report", "Example City hosts major summit", "Possibly True"} {
		if !strings.Contains(document, want) {
			t.Errorf("document missing %q", want)
		}
	}
}
