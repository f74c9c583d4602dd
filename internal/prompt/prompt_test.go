package prompt

import (
	"strings"
	"testing"
)

func TestBuildSummaryPromptDeterministic(t *testing.T) {
	a := BuildSummaryPrompt("https://example.com", "some extracted text")
	b := BuildSummaryPrompt("https://example.com", "some extracted text")
	if a != b {
		t.Fatalf("identical inputs produced different prompts")
	}
}

func TestBuildSummaryPromptIncludesInputs(t *testing.T) {
	p := BuildSummaryPrompt("https://cheese.example.com", "wholesale artisanal cheese")
	if !strings.Contains(p, "https://cheese.example.com") {
		t.Fatalf("website missing from prompt: %s", p)
	}
	if !strings.Contains(p, "wholesale artisanal cheese") {
		t.Fatalf("excerpt missing from prompt: %s", p)
	}
	if !strings.Contains(p, "ONE concise paragraph") {
		t.Fatalf("summary instruction missing: %s", p)
	}
}

func TestBuildAuditPromptIncludesInputs(t *testing.T) {
	docs := []Document{
		{Name: "policy.pdf", Text: "[binary content]"},
		{Name: "schedule.txt", Text: "schedule of insured items"},
	}
	p := BuildAuditPrompt("https://example.com", docs, "07 March 2026")

	for _, want := range []string{
		"https://example.com",
		"07 March 2026",
		"- policy.pdf",
		"- schedule.txt",
		"schedule of insured items",
		"OVERVIEW",
		"COVERAGE TABLE",
		"RED FLAGS",
		"RECOMMENDED TESTS",
		"BENEFITS OF ADDITIONAL STEPS",
	} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestBuildAuditPromptNoDocuments(t *testing.T) {
	p := BuildAuditPrompt("https://example.com", nil, "01 January 2026")
	if strings.Contains(p, "supporting documents") {
		t.Fatalf("document section present without documents:\n%s", p)
	}
	if !strings.Contains(p, "Return only valid HTML") {
		t.Fatalf("output format instruction missing:\n%s", p)
	}
}

func TestBuildAuditPromptDeterministic(t *testing.T) {
	docs := []Document{{Name: "a.txt", Text: "alpha"}}
	a := BuildAuditPrompt("https://example.com", docs, "01 January 2026")
	b := BuildAuditPrompt("https://example.com", docs, "01 January 2026")
	if a != b {
		t.Fatalf("identical inputs produced different prompts")
	}
}
