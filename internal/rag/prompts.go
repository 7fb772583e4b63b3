package rag

import (
	"fmt"
	"strings"

	"github.com/askdocs/askdocs/internal/document"
)

// systemPrompt instructs the model to stay inside the supplied context.
const systemPrompt = `You are a helpful assistant that answers questions using only the provided context. If the context does not contain enough information to answer the question, say so plainly instead of guessing.`

// contextSeparator divides documents in the context block. Chosen to be
// distinguishable from plausible document content.
const contextSeparator = "\n\n---\n\n"

// buildContext concatenates retrieved documents into one labeled context
// block, in retrieval order.
func buildContext(docs []document.Document) string {
	parts := make([]string, len(docs))
	for i, doc := range docs {
		parts[i] = fmt.Sprintf("Title: %s\nContent: %s", doc.Title, doc.Content)
	}
	return strings.Join(parts, contextSeparator)
}

// buildUserPrompt embeds the context block and the literal question.
func buildUserPrompt(contextBlock, question string) string {
	return fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextBlock, question)
}
