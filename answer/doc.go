// Package answer synthesizes answers from retrieved passages.
//
// The Synthesizer sends a system prompt and a single user turn holding the
// assembled context and the question to an ai.Completer:
//
//	s, _ := answer.NewSynthesizer(completer)
//	text, err := s.Answer(ctx, question, result.Passages)
package answer
