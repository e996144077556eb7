// Package strategy maps query intents to retrieval depths.
//
// A Strategy is a tagged value: TopK(k) for precision-oriented questions and
// ExhaustiveWithCeiling(maxK) for summaries that need the whole document.
// Exhaustive retrieval reuses bounded similarity search, so the ceiling is an
// explicit parameter rather than a hidden constant.
//
// Profiles hold one strategy per intent plus a default for anything else.
// DocumentProfile and TranscriptProfile carry the stock budgets; both can be
// overridden from the config file.
package strategy
