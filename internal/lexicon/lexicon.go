// internal/lexicon/lexicon.go
//
// Lexicon provider for the puzzle.
//
// Responsibilities:
//   - Look up a word's definition, synonyms, usage examples, and hypernym.
//   - List candidate target words within length bounds.
//   - Pick a random candidate.
//
// Source:
//   The Static provider is built from a YAML document: the embedded default
//   (assets/lexicon.yaml) or the file named by LEXICON_FILE.
//
// Normalization:
//   • Words are lowercased and trimmed; only a–z words are kept as entries.
//   • Synonyms drop the word itself, swap "_" for spaces, and are de-duplicated.
//   • Unknown words return an empty Entry, never an error.

package lexicon

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MuraliDhar-731/WordPuzzle/assets"
)

// Default length bounds for candidate words.
const (
	DefaultMinLen = 4
	DefaultMaxLen = 8
)

// ErrNoCandidates is returned when no word fits the requested bounds.
var ErrNoCandidates = errors.New("lexicon: no candidate words")

// Provider is what the game needs from a lexical source.
type Provider interface {
	// Lookup returns the hints for word. Unknown words yield an empty Entry.
	Lookup(word string) Entry

	// Candidates returns target words with minLen <= len <= maxLen, sorted.
	Candidates(minLen, maxLen int) []string
}

// Entry is the hint material for one word.
type Entry struct {
	Word       string   `yaml:"word" json:"word"`
	Definition string   `yaml:"definition" json:"definition,omitempty"`
	Synonyms   []string `yaml:"synonyms" json:"synonyms,omitempty"`
	Examples   []string `yaml:"examples" json:"examples,omitempty"`
	Hypernym   string   `yaml:"hypernym" json:"hypernym,omitempty"`
}

// Empty reports whether the entry carries no hint material at all.
func (e Entry) Empty() bool {
	return e.Definition == "" && len(e.Synonyms) == 0 && len(e.Examples) == 0 && e.Hypernym == ""
}

// TopSynonyms returns at most n synonyms.
func (e Entry) TopSynonyms(n int) []string {
	if n < 0 || n >= len(e.Synonyms) {
		return e.Synonyms
	}
	return e.Synonyms[:n]
}

// FirstExample returns the first usage example, if any.
func (e Entry) FirstExample() (string, bool) {
	if len(e.Examples) == 0 {
		return "", false
	}
	return e.Examples[0], true
}

type document struct {
	Words []Entry `yaml:"words"`
}

// Static is an in-memory Provider.
type Static struct {
	entries map[string]Entry
	words   []string // sorted
}

var _ Provider = (*Static)(nil)

// NewStatic builds a provider from entries, normalizing each one.
// Later duplicates of a word replace earlier ones.
func NewStatic(entries []Entry) *Static {
	s := &Static{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		e, ok := normalize(e)
		if !ok {
			continue
		}
		s.entries[e.Word] = e
	}
	s.words = make([]string, 0, len(s.entries))
	for w := range s.entries {
		s.words = append(s.words, w)
	}
	sort.Strings(s.words)
	return s
}

// Parse reads a YAML lexicon document.
func Parse(r io.Reader) (*Static, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return NewStatic(nil), nil
		}
		return nil, fmt.Errorf("lexicon: decode: %w", err)
	}
	return NewStatic(doc.Words), nil
}

// Load reads the lexicon at path, or the embedded default when path is empty.
func Load(path string) (*Static, error) {
	if path == "" {
		raw, err := assets.Lexicon()
		if err != nil {
			return nil, fmt.Errorf("lexicon: embedded: %w", err)
		}
		return Parse(bytes.NewReader(raw))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Lookup returns the entry for word, or an empty Entry.
func (s *Static) Lookup(word string) Entry {
	w := strings.ToLower(strings.TrimSpace(word))
	if e, ok := s.entries[w]; ok {
		return e
	}
	return Entry{Word: w}
}

// Candidates returns sorted words whose length lies in [minLen, maxLen].
func (s *Static) Candidates(minLen, maxLen int) []string {
	var out []string
	for _, w := range s.words {
		if len(w) >= minLen && len(w) <= maxLen {
			out = append(out, w)
		}
	}
	return out
}

// Len reports how many words are loaded.
func (s *Static) Len() int { return len(s.words) }

// RandomWord picks a candidate uniformly using rng.
func RandomWord(p Provider, rng *rand.Rand, minLen, maxLen int) (string, error) {
	words := p.Candidates(minLen, maxLen)
	if len(words) == 0 {
		return "", fmt.Errorf("%w in [%d, %d]", ErrNoCandidates, minLen, maxLen)
	}
	return words[rng.IntN(len(words))], nil
}

func normalize(e Entry) (Entry, bool) {
	e.Word = strings.ToLower(strings.TrimSpace(e.Word))
	if e.Word == "" || !isAlpha(e.Word) {
		return Entry{}, false
	}
	e.Definition = strings.TrimSpace(e.Definition)
	e.Hypernym = strings.ReplaceAll(strings.TrimSpace(e.Hypernym), "_", " ")

	seen := make(map[string]struct{}, len(e.Synonyms))
	syns := make([]string, 0, len(e.Synonyms))
	for _, s := range e.Synonyms {
		s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", " ")
		if s == "" || s == e.Word {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		syns = append(syns, s)
	}
	e.Synonyms = syns

	examples := make([]string, 0, len(e.Examples))
	for _, x := range e.Examples {
		if x = strings.TrimSpace(x); x != "" {
			examples = append(examples, x)
		}
	}
	e.Examples = examples
	return e, true
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
