// Package prompt assembles the instruction strings sent to the completion
// service. Builders are pure functions: identical inputs always produce
// identical output, and every caller-supplied value (website, filenames,
// date) appears verbatim in the result.
package prompt

import (
	"fmt"
	"strings"
)

// BuildSummaryPrompt produces the one-paragraph site analysis instruction
// used by the quick-analysis endpoint.
func BuildSummaryPrompt(website, excerpt string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the business activities found on %s based on the extracted text.\n\n", website)
	b.WriteString("1. Identify the industry/sector\n")
	b.WriteString("2. Determine the main business activities\n")
	b.WriteString("3. Note any products or services mentioned\n")
	b.WriteString("4. Identify any potential insurance-related risks\n")
	b.WriteString("5. Summarize this all in ONE concise paragraph (max 100 words)\n\n")
	b.WriteString("Extracted text (truncated):\n")
	b.WriteString(excerpt)
	b.WriteString("\n")
	return b.String()
}

// Document is one client-supplied file included in the audit prompt. Text may
// be empty or a sentinel marker when no readable content was extracted.
type Document struct {
	Name string
	Text string
}

// BuildAuditPrompt produces the full insurance-review instruction. The date
// is supplied by the caller rather than read from the clock so the builder
// stays deterministic.
func BuildAuditPrompt(website string, docs []Document, date string) string {
	var b strings.Builder
	b.WriteString("You are an expert UK commercial insurance broker with over 30 years of experience. ")
	b.WriteString("Produce a single, stand-alone HTML document: a complete insurance review for ")
	b.WriteString(website)
	b.WriteString(".\n\n")

	fmt.Fprintf(&b, "Date the report %s in the header.\n\n", date)

	if len(docs) > 0 {
		b.WriteString("The client supplied the following supporting documents; reference them where relevant:\n")
		for _, doc := range docs {
			fmt.Fprintf(&b, "- %s\n", doc.Name)
		}
		b.WriteString("\n")
		for _, doc := range docs {
			if doc.Text == "" {
				continue
			}
			fmt.Fprintf(&b, "Content of %s (truncated):\n%s\n\n", doc.Name, doc.Text)
		}
	}

	b.WriteString("The report must contain exactly these sections, in order:\n")
	fmt.Fprintf(&b, "1. OVERVIEW — analyze the business at %s to determine industry and operation type; ", website)
	b.WriteString("cover the standard policies (Public Liability, Product Liability, Stock & Contents, ")
	b.WriteString("Employers' Liability, Business Interruption) and explain WHY each coverage exists, ")
	b.WriteString("in clear language without jargon.\n")
	b.WriteString("2. COVERAGE TABLE — a 5-column table: Coverage Type; Category ")
	b.WriteString("(Essential / Peace-of-Mind / Optional); Client-specific claim scenarios; ")
	b.WriteString("How to claim (timeline & cost expectations); Annual Cost.\n")
	b.WriteString("3. RED FLAGS & REAL-LIFE SCENARIOS — likely coverage gaps for this business type, ")
	b.WriteString("with documented claim examples (successful and unsuccessful) and their time and ")
	b.WriteString("financial consequences.\n")
	b.WriteString("4. RECOMMENDED TESTS & CERTIFICATES — per product/service category, the relevant ")
	b.WriteString("certifications, how each strengthens claims, and specific potential premium savings.\n")
	b.WriteString("5. BENEFITS OF ADDITIONAL STEPS — premium reductions, lower excess, faster claims, ")
	b.WriteString("and competitive advantages specific to this industry.\n\n")

	b.WriteString("Return only valid HTML. No markdown, no commentary outside the document.\n")
	return b.String()
}
