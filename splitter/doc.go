// Package splitter cuts extracted document text into overlapping chunks
// using langchaingo's recursive character splitter.
package splitter
