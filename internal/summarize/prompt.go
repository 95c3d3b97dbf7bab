package summarize

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a technical editor. You write tight, factual chapter abstracts for book outlines. Never invent content that is not in the source text.`

const chunkInstructions = `Summarize the following chapter excerpt in 2-4 sentences. Cover the main claims and any procedures described. Respond with plain prose only, no headings or bullet points.`

const mergeInstructions = `The following are partial summaries of consecutive excerpts from one chapter. Merge them into a single abstract of at most 5 sentences. Remove repetition. Respond with plain prose only.`

func buildChunkPrompt(docTitle string, breadcrumb []string, chunkText string) string {
	var sb strings.Builder
	sb.WriteString(chunkInstructions)
	sb.WriteString("\n\n---\n")
	sb.WriteString(fmt.Sprintf("Document: %q\n", docTitle))
	if len(breadcrumb) > 0 {
		sb.WriteString("Section: ")
		sb.WriteString(strings.Join(breadcrumb, " > "))
		sb.WriteString("\n")
	}
	sb.WriteString("---\n")
	sb.WriteString(chunkText)
	return sb.String()
}

func buildMergePrompt(chapterTitle string, partials []string) string {
	var sb strings.Builder
	sb.WriteString(mergeInstructions)
	sb.WriteString("\n\n---\n")
	sb.WriteString(fmt.Sprintf("Chapter: %q\n", chapterTitle))
	sb.WriteString("---\n")
	for i, p := range partials {
		sb.WriteString(fmt.Sprintf("[%d] %s\n\n", i+1, strings.TrimSpace(p)))
	}
	return sb.String()
}
