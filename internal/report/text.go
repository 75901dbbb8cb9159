package report

import (
	"fmt"
	"io"
	"strings"

	"newsverifier/internal/verify"
)

const rule = "--------------------------------------------------"

// WriteText renders a verification result as a human readable report.
func WriteText(w io.Writer, r verify.Result) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Headline: %s\n", r.Headline)
	fmt.Fprintf(&b, "Authenticity score: %d/100\n", r.AuthenticityScore)
	fmt.Fprintf(&b, "Status: %s\n", r.VerificationStatus)
	if r.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n", r.Error)
	}
	b.WriteString(rule + "\n")

	for _, line := range summaryLines(r.Summary) {
		b.WriteString(line + "\n")
	}

	fmt.Fprintf(&b, "Sources checked: %d, matching: %d\n", r.Details.TotalSourcesChecked, r.Details.MatchingSources)
	for _, src := range r.SourcesFound {
		fmt.Fprintf(&b, "  [%d%%] %s (%s, weight %.2f)\n", src.SimilarityScore, src.Title, sourceLabel(src), src.ReputationWeight)
		if src.URL != "" {
			fmt.Fprintf(&b, "        %s\n", src.URL)
		}
	}

	if len(r.Details.FactCheckResults) > 0 {
		b.WriteString("Fact checks:\n")
		for _, fc := range r.Details.FactCheckResults {
			b.WriteString("  " + factCheckLine(fc) + "\n")
		}
	}

	if len(r.Details.Reasoning) > 0 {
		b.WriteString("Reasoning:\n")
		for _, reason := range r.Details.Reasoning {
			b.WriteString("  - " + reason + "\n")
		}
	}

	for _, name := range sortedKeys(r.Details.Errors) {
		fmt.Fprintf(&b, "Collector %s failed: %s\n", name, r.Details.Errors[name])
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func summaryLines(s verify.Summary) []string {
	var lines []string
	for _, field := range []struct{ label, value string }{
		{"What", s.WhatHappened},
		{"When", s.WhenHappened},
		{"Where", s.WhereHappened},
		{"Why", s.WhyHappened},
	} {
		if field.value == "" {
			continue
		}
		lines = append(lines, field.label+": "+field.value)
	}
	return lines
}

func sourceLabel(src verify.MatchedSource) string {
	switch {
	case src.SourceName != "" && src.Domain != "":
		return src.SourceName + ", " + src.Domain
	case src.SourceName != "":
		return src.SourceName
	default:
		return src.Domain
	}
}

func factCheckLine(fc verify.FactCheckObservation) string {
	if fc.IsReview() {
		return fmt.Sprintf("%s rated it %q %s", fc.Site, fc.Rating, fc.URL)
	}
	return fmt.Sprintf("%s: %d result(s), %s", fc.Site, fc.ResultsFound, fc.Status)
}
