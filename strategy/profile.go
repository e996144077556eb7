package strategy

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/poiesic/lectern/intent"
)

const (
	// DocumentProfileName names the profile for PDF document Q&A.
	DocumentProfileName = "document"

	// TranscriptProfileName names the profile for video transcript Q&A.
	TranscriptProfileName = "transcript"

	// DefaultExhaustiveCeiling is larger than the chunk count of any single
	// document seen in practice.
	DefaultExhaustiveCeiling = 256
)

// Profile maps intents to strategies for one kind of content.
// Intents missing from ByIntent use Default.
type Profile struct {
	Name     string
	ByIntent map[intent.Intent]Strategy
	Default  Strategy
}

// Select returns the strategy for i, or Default when i is not mapped.
// Matching is exact, so "Specific_Question!" selects Default.
func (p Profile) Select(i intent.Intent) Strategy {
	if s, ok := p.ByIntent[i]; ok {
		return s
	}
	return p.Default
}

// Validate checks every strategy in the profile.
func (p Profile) Validate() error {
	var errs []error
	if err := p.Default.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("default: %w", err))
	}
	for _, i := range slices.Sorted(maps.Keys(p.ByIntent)) {
		if err := p.ByIntent[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", i, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	return nil
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	return Profile{
		Name:     p.Name,
		ByIntent: maps.Clone(p.ByIntent),
		Default:  p.Default,
	}
}

// DocumentProfile returns the budgets used for document Q&A.
func DocumentProfile() Profile {
	return Profile{
		Name: DocumentProfileName,
		ByIntent: map[intent.Intent]Strategy{
			intent.SpecificQuestion: TopK(12),
			intent.GeneralQuestion:  TopK(18),
			intent.Instruction:      TopK(18),
			intent.Summarization:    ExhaustiveWithCeiling(DefaultExhaustiveCeiling),
			intent.Other:            TopK(20),
		},
		Default: TopK(30),
	}
}

// TranscriptProfile returns the budgets used for video transcript Q&A.
// Transcripts are chunked more coarsely, so fewer chunks are needed.
func TranscriptProfile() Profile {
	return Profile{
		Name: TranscriptProfileName,
		ByIntent: map[intent.Intent]Strategy{
			intent.SpecificQuestion: TopK(3),
			intent.GeneralQuestion:  TopK(5),
			intent.Instruction:      TopK(8),
			intent.Summarization:    ExhaustiveWithCeiling(DefaultExhaustiveCeiling),
			intent.Other:            TopK(10),
		},
		Default: TopK(10),
	}
}

// Builtin returns the built-in profile with the given name.
func Builtin(name string) (Profile, error) {
	switch name {
	case DocumentProfileName:
		return DocumentProfile(), nil
	case TranscriptProfileName:
		return TranscriptProfile(), nil
	default:
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
}
