package ui

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"policysim/domain/verdict"
)

// renderVerdictMarkdown builds the human-readable verdict report.
func renderVerdictMarkdown(v verdict.Verdict) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Validation Verdict: %s\n\n", v.ModelName)
	fmt.Fprintf(&b, "- **Run:** %s\n", v.RunID)
	fmt.Fprintf(&b, "- **Model:** %s\n", v.ModelID)
	fmt.Fprintf(&b, "- **Eligible:** %t\n", v.Eligible)
	fmt.Fprintf(&b, "- **Complexity:** %.4f\n", v.Complexity)
	fmt.Fprintf(&b, "- **Created:** %s\n\n", v.CreatedAt.Time().Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "%s\n\n", v.Summary)

	if len(v.Tier1Failures) > 0 {
		b.WriteString("## Structural Findings\n\n")
		b.WriteString("| Check | Finding |\n|---|---|\n")
		for _, f := range v.Tier1Failures {
			fmt.Fprintf(&b, "| %s | %s |\n", f.TestID, f.Reason)
		}
		b.WriteString("\n")
	}

	if v.Suite != nil {
		fmt.Fprintf(&b, "## Anchor Battery (%d/%d passed)\n\n", v.Suite.Passed, v.Suite.Total)
		b.WriteString("| Test | Name | Category | Result | Reason |\n|---|---|---|---|---|\n")
		for _, r := range v.Suite.Results {
			status := "FAIL"
			if r.Passed {
				status = "PASS"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				r.TestID, r.Name, r.Category, status, r.Reason)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// markdownToHTML renders a report document to a standalone HTML page.
func markdownToHTML(doc string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: "Validation Verdict",
	})
	return markdown.ToHTML([]byte(doc), p, renderer)
}
