package gatekeeper

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ChoiceSet is the fixed list of answers offered in every challenge.
type ChoiceSet struct {
	Options    []Option
	CorrectTag string
}

// DefaultChoices are the answers of the Swiss mechanical keyboard chat.
var DefaultChoices = ChoiceSet{
	Options: []Option{
		{Label: "Mechanical", Tag: "mech"},
		{Label: "Rubberdome", Tag: "rubber"},
	},
	CorrectTag: "mech",
}

func (c ChoiceSet) Validate() error {
	if len(c.Options) < 2 {
		return errors.New("choice set needs at least two options")
	}
	seen := make(map[string]bool, len(c.Options))
	for _, opt := range c.Options {
		if opt.Tag == "" || opt.Label == "" {
			return fmt.Errorf("option %q: label and tag are required", opt.Label)
		}
		if seen[opt.Tag] {
			return fmt.Errorf("duplicate option tag %q", opt.Tag)
		}
		seen[opt.Tag] = true
	}
	if !seen[c.CorrectTag] {
		return fmt.Errorf("correct tag %q is not among the options", c.CorrectTag)
	}
	return nil
}

// CorrectLabel returns the label of the correct option.
func (c ChoiceSet) CorrectLabel() string {
	for _, opt := range c.Options {
		if opt.Tag == c.CorrectTag {
			return opt.Label
		}
	}
	return ""
}

// Shuffler permutes n elements through swap. rand.Shuffle satisfies it.
type Shuffler func(n int, swap func(i, j int))

// Shuffled returns a uniformly permuted copy of the options. The order
// is presentational only; the correct tag does not depend on it.
func (c ChoiceSet) Shuffled(shuffle Shuffler) []Option {
	if shuffle == nil {
		shuffle = rand.Shuffle
	}
	out := append([]Option(nil), c.Options...)
	shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
