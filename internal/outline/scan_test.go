package outline

import "testing"

func TestScan_ClassifiesHeadingLevels(t *testing.T) {
	input := "# Title\n\nintro line\n## Chapter 1: Basics\n### 1.1 Setup\n#### Deep note\ncontent\n"
	tokens := Scan(input)

	want := []Token{
		{Level: 1, Text: "Title", Line: 1},
		{Level: 0, Text: "", Line: 2},
		{Level: 0, Text: "intro line", Line: 3},
		{Level: 2, Text: "Chapter 1: Basics", Line: 4},
		{Level: 3, Text: "1.1 Setup", Line: 5},
		{Level: 4, Text: "Deep note", Line: 6},
		{Level: 0, Text: "content", Line: 7},
		{Level: 0, Text: "", Line: 8},
	}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}
	for i, w := range want {
		if tokens[i] != w {
			t.Errorf("token %d: expected %+v, got %+v", i, w, tokens[i])
		}
	}
}

func TestScan_HashWithoutSpaceIsContent(t *testing.T) {
	tokens := Scan("#hashtag\n#!/bin/sh")
	for _, tok := range tokens {
		if tok.Level != 0 {
			t.Errorf("expected content token, got level %d for %q", tok.Level, tok.Text)
		}
	}
}

func TestScan_CodeFencesShieldHeadings(t *testing.T) {
	input := "# T\n```\n# not a heading\n```\n## Chapter 1: A\n"
	tokens := Scan(input)

	var headings []Token
	for _, tok := range tokens {
		if tok.Level > 0 {
			headings = append(headings, tok)
		}
	}
	if len(headings) != 2 {
		t.Fatalf("expected 2 headings, got %d: %+v", len(headings), headings)
	}
	if headings[1].Text != "Chapter 1: A" || headings[1].Line != 5 {
		t.Errorf("unexpected second heading: %+v", headings[1])
	}
}

func TestScan_CRLFInput(t *testing.T) {
	tokens := Scan("# T\r\ncontent\r\n")
	if tokens[0].Level != 1 || tokens[0].Text != "T" {
		t.Errorf("expected title token, got %+v", tokens[0])
	}
	if tokens[1].Text != "content" {
		t.Errorf("expected clean content line, got %q", tokens[1].Text)
	}
}
