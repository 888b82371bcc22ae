// Package moderation masks banned words in outgoing chat messages
// before they are persisted. Matching runs on a normalized view of
// the text (lowercased, separators stripped, common leet characters
// folded back) while masking is applied to the original runes, so
// spacing and surrounding punctuation survive.
package moderation

import (
	"log/slog"
	"unicode"

	"github.com/abadojack/whatlanggo"
	goahocorasick "github.com/anknown/ahocorasick"
)

// WordLists maps ISO 639-3 language codes (as produced by whatlanggo)
// to banned words. The "default" entry applies when detection is
// unreliable or no list exists for the detected language.
type WordLists map[string][]string

const DefaultList = "default"

type Moderator struct {
	machines map[string]*goahocorasick.Machine
	maskChar rune
	log      *slog.Logger
}

func NewModerator(lists WordLists, maskChar rune, log *slog.Logger) (*Moderator, error) {
	machines := make(map[string]*goahocorasick.Machine, len(lists))
	for lang, words := range lists {
		if len(words) == 0 {
			continue
		}
		patterns := make([][]rune, len(words))
		for i, w := range words {
			patterns[i] = foldRunes([]rune(w))
		}
		m := new(goahocorasick.Machine)
		if err := m.Build(patterns); err != nil {
			return nil, err
		}
		machines[lang] = m
	}
	return &Moderator{machines: machines, maskChar: maskChar, log: log}, nil
}

// Censor replaces every banned-word occurrence with the mask
// character. The word list is chosen by detected language, falling
// back to the default list.
func (m *Moderator) Censor(text string) string {
	machine := m.machineFor(text)
	if machine == nil {
		return text
	}

	original := []rune(text)
	folded, positions := fold(original)
	if len(folded) == 0 {
		return text
	}

	hits := machine.MultiPatternSearch(folded, false)
	if len(hits) == 0 {
		return text
	}

	for _, hit := range hits {
		start := hit.Pos
		end := start + len(hit.Word)
		if start < 0 || end > len(positions) {
			continue
		}
		// positions maps folded indices back to the original text;
		// everything between the first and last matched rune is
		// masked, separators included.
		for i := positions[start]; i <= positions[end-1]; i++ {
			original[i] = m.maskChar
		}
	}
	return string(original)
}

func (m *Moderator) machineFor(text string) *goahocorasick.Machine {
	info := whatlanggo.Detect(text)
	if info.IsReliable() {
		if machine, ok := m.machines[whatlanggo.LangToString(info.Lang)]; ok {
			return machine
		}
	}
	return m.machines[DefaultList]
}

// fold lowercases and simplifies the text, dropping separator runes,
// and records the original index of every kept rune.
func fold(original []rune) ([]rune, []int) {
	folded := make([]rune, 0, len(original))
	positions := make([]int, 0, len(original))
	for i, r := range original {
		simple := simplify(r)
		if isSeparator(simple) {
			continue
		}
		folded = append(folded, unicode.ToLower(simple))
		positions = append(positions, i)
	}
	return folded, positions
}

func foldRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		simple := simplify(r)
		if isSeparator(simple) {
			continue
		}
		out = append(out, unicode.ToLower(simple))
	}
	return out
}

// simplify maps common leet-speak characters back to their alphabet
// counterparts so "b4dger" still matches "badger".
func simplify(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

func isSeparator(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
