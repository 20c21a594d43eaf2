package puzzle

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuraliDhar-731/WordPuzzle/internal/reward"
)

func TestNewIsFullyMasked(t *testing.T) {
	p := New("Garden", quartz.NewMock(t))
	assert.Equal(t, "garden", p.Word)
	assert.Equal(t, "_ _ _ _ _ _", p.Masked())
	a, h := p.Progress()
	assert.Zero(t, a)
	assert.Zero(t, h)
}

func TestLetterGuessRevealsAllPositions(t *testing.T) {
	p := New("banana", quartz.NewMock(t))

	out, err := p.ApplyGuess("A")
	require.NoError(t, err)
	assert.Equal(t, reward.LetterPresent, out)
	assert.Equal(t, "_ a _ a _ a", p.Masked())

	out, err = p.ApplyGuess("z")
	require.NoError(t, err)
	assert.Equal(t, reward.LetterAbsent, out)
	assert.Equal(t, 2, p.Attempts)
	assert.Equal(t, []string{"a", "z"}, p.GuessedLetters())
}

func TestRevealingLastLetterSolves(t *testing.T) {
	p := New("noon", quartz.NewMock(t))
	_, err := p.ApplyGuess("n")
	require.NoError(t, err)
	assert.False(t, p.Solved)

	out, err := p.ApplyGuess("o")
	require.NoError(t, err)
	assert.Equal(t, reward.LetterPresent, out)
	assert.True(t, p.Solved)
	assert.Equal(t, "n o o n", p.Masked())
}

func TestWordGuess(t *testing.T) {
	p := New("garden", quartz.NewMock(t))

	out, err := p.ApplyGuess("gardens")
	require.NoError(t, err)
	assert.Equal(t, reward.WordIncorrect, out)
	assert.False(t, p.Solved)

	out, err = p.ApplyGuess("garden")
	require.NoError(t, err)
	assert.Equal(t, reward.WordCorrect, out)
	assert.True(t, p.Solved)
	assert.Equal(t, "g a r d e n", p.Masked())

	_, err = p.ApplyGuess("g")
	assert.ErrorIs(t, err, ErrSolved)
	assert.Equal(t, 2, p.Attempts)
}

func TestCorrectWordOnLateAttemptStillPaysFull(t *testing.T) {
	p := New("garden", quartz.NewMock(t))
	for i := 0; i < 25; i++ {
		_, err := p.ApplyGuess("q")
		require.NoError(t, err)
	}
	out, err := p.ApplyGuess("garden")
	require.NoError(t, err)
	assert.Equal(t, 10.0, reward.Compute(out))
}

func TestInvalidGuessDoesNotCount(t *testing.T) {
	p := New("garden", quartz.NewMock(t))
	for _, g := range []string{"", "   ", "g4", "ice-cream", "é"} {
		_, err := p.ApplyGuess(g)
		assert.ErrorIs(t, err, ErrInvalidGuess, "%q", g)
	}
	assert.Zero(t, p.Attempts)
}

func TestRevealHintIsIdempotent(t *testing.T) {
	p := New("garden", quartz.NewMock(t))

	assert.True(t, p.RevealHint(HintSynonym))
	assert.False(t, p.RevealHint(HintSynonym))
	_, h := p.Progress()
	assert.Equal(t, 1, h)

	assert.True(t, p.RevealHint(HintExample))
	assert.Equal(t, 2, p.HintClassesShown())
	assert.True(t, p.HintShown(HintExample))
}

func TestRevealHintRejectsUnknownClass(t *testing.T) {
	p := New("garden", quartz.NewMock(t))

	assert.False(t, p.RevealHint("hypernym"))
	assert.False(t, p.HintShown("hypernym"))
	assert.Zero(t, p.HintClassesShown())

	for _, c := range HintClasses {
		p.RevealHint(c)
	}
	p.RevealHint("hypernym")
	assert.Equal(t, len(HintClasses), p.HintClassesShown())
}

func TestElapsedFreezesOnSolve(t *testing.T) {
	ctx := context.Background()
	clk := quartz.NewMock(t)
	p := New("garden", clk)

	clk.Advance(40 * time.Second).MustWait(ctx)
	assert.Equal(t, 40*time.Second, p.Elapsed())

	_, err := p.ApplyGuess("garden")
	require.NoError(t, err)

	clk.Advance(time.Minute).MustWait(ctx)
	assert.Equal(t, 40*time.Second, p.Elapsed())
}

func TestDifficulty(t *testing.T) {
	ctx := context.Background()

	t.Run("unsolved", func(t *testing.T) {
		_, ok := New("garden", quartz.NewMock(t)).Difficulty()
		assert.False(t, ok)
	})

	t.Run("easy", func(t *testing.T) {
		p := New("garden", quartz.NewMock(t))
		for _, g := range []string{"a", "e", "garden"} {
			_, err := p.ApplyGuess(g)
			require.NoError(t, err)
		}
		r, ok := p.Difficulty()
		require.True(t, ok)
		assert.Equal(t, RatingEasy, r)
	})

	t.Run("medium", func(t *testing.T) {
		clk := quartz.NewMock(t)
		p := New("garden", clk)
		p.RevealHint(HintSynonym)
		p.RevealHint(HintExample)
		for i := 0; i < 9; i++ {
			_, err := p.ApplyGuess("z")
			require.NoError(t, err)
		}
		clk.Advance(time.Minute).MustWait(ctx)
		_, err := p.ApplyGuess("garden")
		require.NoError(t, err)

		// (10 + 4 + 2) / 3
		r, _ := p.Difficulty()
		assert.Equal(t, RatingMedium, r)
	})

	t.Run("hard", func(t *testing.T) {
		p := New("garden", quartz.NewMock(t))
		for i := 0; i < 19; i++ {
			_, err := p.ApplyGuess("x")
			require.NoError(t, err)
		}
		p.RecordHintRequest()
		_, err := p.ApplyGuess("garden")
		require.NoError(t, err)
		r, _ := p.Difficulty()
		assert.Equal(t, RatingHard, r)
	})
}
