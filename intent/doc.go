// Package intent classifies queries into the intents that drive retrieval depth.
//
// The label set is closed (specific_question, summarization, instruction,
// general_question, other), but labels returned by the model are passed through
// verbatim. An unexpected label such as "Specific_Question!" is not an error;
// the strategy layer routes it to its default.
package intent
