package session

import (
	"regexp"
	"strings"

	"github.com/MuraliDhar-731/WordPuzzle/internal/policy"
	"github.com/MuraliDhar-731/WordPuzzle/internal/puzzle"
)

// View is the player-facing snapshot of a round.
type View struct {
	RoundID     string        `json:"roundId"`
	Masked      string        `json:"masked"`
	Length      int           `json:"length"`
	Definition  string        `json:"definition"`
	Category    string        `json:"category,omitempty"`
	Synonyms    []string      `json:"synonyms,omitempty"`
	Example     string        `json:"example,omitempty"`
	Guessed     []string      `json:"guessed"`
	Attempts    int           `json:"attempts"`
	HintsUsed   int           `json:"hintsUsed"`
	HintClasses int           `json:"hintClasses"`
	ElapsedMs   int64         `json:"elapsedMs"`
	Solved      bool          `json:"solved"`
	Word        string        `json:"word,omitempty"`
	Difficulty  puzzle.Rating `json:"difficulty,omitempty"`
	LastAction  policy.Action `json:"lastAction"`
}

const noDefinition = "No definition available"

// View renders r. Hints appear only once their class has been disclosed,
// and the word only once solved.
func (o *Orchestrator) View(r *Round) View {
	o.mu.Lock()
	defer o.mu.Unlock()

	p := r.Puzzle
	v := View{
		RoundID:     r.ID,
		Masked:      p.Masked(),
		Length:      len(p.Word),
		Definition:  r.Entry.Definition,
		Category:    r.Entry.Hypernym,
		Guessed:     p.GuessedLetters(),
		Attempts:    p.Attempts,
		HintsUsed:   p.HintsUsed,
		HintClasses: p.HintClassesShown(),
		ElapsedMs:   p.Elapsed().Milliseconds(),
		Solved:      p.Solved,
		LastAction:  r.action,
	}
	if v.Definition == "" {
		v.Definition = noDefinition
	}
	if v.Guessed == nil {
		v.Guessed = []string{}
	}
	if p.HintShown(puzzle.HintSynonym) {
		v.Synonyms = r.Entry.TopSynonyms(maxSynonyms)
	}
	if p.HintShown(puzzle.HintExample) {
		if ex, ok := r.Entry.FirstExample(); ok {
			v.Example = maskWord(ex, p.Word)
		}
	}
	if p.Solved {
		v.Word = p.Word
		v.Difficulty, _ = p.Difficulty()
	}
	return v
}

// maskWord blanks every case-insensitive occurrence of word in s.
func maskWord(s, word string) string {
	if word == "" {
		return s
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(word))
	return re.ReplaceAllLiteralString(s, strings.Repeat("_", len(word)))
}
