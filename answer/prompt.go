package answer

import "strings"

const defaultSystemPrompt = `You are a helpful study assistant. Answer the user's question using only the provided context.
If the context does not contain the answer, say that you could not find it in the material.
When a passage starts with a bracketed time range, cite that range in your answer.`

func buildPrompt(question, context string) string {
	var sb strings.Builder
	sb.WriteString("Context:\n")
	sb.WriteString(context)
	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(question)
	sb.WriteString("\n\nAnswer:")
	return sb.String()
}
