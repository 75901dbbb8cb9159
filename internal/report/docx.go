package report

import (
	"fmt"
	"sort"

	"github.com/gingfrederik/docx"

	"newsverifier/internal/verify"
)

// SaveDocx writes the verification result as a Word document at path.
func SaveDocx(path string, r verify.Result) error {
	f := docx.NewFile()

	f.AddParagraph().AddText("Headline Verification Report").Size(20)
	f.AddParagraph().AddText(r.Headline).Size(16)

	meta := f.AddParagraph().AddText(fmt.Sprintf("ID: %s | Checked: %s", r.ID, r.CheckedAt.Format("2006-01-02 15:04:05 MST")))
	meta.Size(10)
	meta.Color("808080")

	verdict := f.AddParagraph().AddText(fmt.Sprintf("Score: %d/100 | Status: %s", r.AuthenticityScore, r.VerificationStatus))
	verdict.Color(statusColor(r.VerificationStatus))
	if r.Error != "" {
		f.AddParagraph().AddText("Error: " + r.Error).Color("C00000")
	}
	f.AddParagraph()

	if lines := summaryLines(r.Summary); len(lines) > 0 {
		f.AddParagraph().AddText("Summary").Size(14)
		for _, line := range lines {
			f.AddParagraph().AddText(line)
		}
		f.AddParagraph()
	}

	f.AddParagraph().AddText(fmt.Sprintf("Sources (%d matching of %d checked)", r.Details.MatchingSources, r.Details.TotalSourcesChecked)).Size(14)
	for _, src := range r.SourcesFound {
		f.AddParagraph().AddText(src.Title)
		info := f.AddParagraph().AddText(fmt.Sprintf("%s | similarity %d%% | weight %.2f", sourceLabel(src), src.SimilarityScore, src.ReputationWeight))
		info.Size(10)
		info.Color("808080")
		if src.URL != "" {
			link := f.AddParagraph().AddText(src.URL)
			link.Size(10)
			link.Color("0000FF")
		}
	}

	if len(r.Details.FactCheckResults) > 0 {
		f.AddParagraph()
		f.AddParagraph().AddText("Fact checks").Size(14)
		for _, fc := range r.Details.FactCheckResults {
			f.AddParagraph().AddText(factCheckLine(fc))
		}
	}

	if len(r.Details.Reasoning) > 0 {
		f.AddParagraph()
		f.AddParagraph().AddText("Reasoning").Size(14)
		for _, reason := range r.Details.Reasoning {
			f.AddParagraph().AddText("- " + reason)
		}
	}

	f.AddParagraph().AddText(rule)
	return f.Save(path)
}

func statusColor(s verify.Status) string {
	switch s {
	case verify.StatusHighlyLikelyTrue, verify.StatusLikelyTrue:
		return "008000"
	case verify.StatusPossiblyTrue:
		return "B8860B"
	default:
		return "C00000"
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
