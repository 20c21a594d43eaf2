package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuraliDhar-731/WordPuzzle/assets"
	"github.com/MuraliDhar-731/WordPuzzle/internal/daily"
	"github.com/MuraliDhar-731/WordPuzzle/internal/history"
	"github.com/MuraliDhar-731/WordPuzzle/internal/lexicon"
	"github.com/MuraliDhar-731/WordPuzzle/internal/metrics"
	"github.com/MuraliDhar-731/WordPuzzle/internal/policy"
	"github.com/MuraliDhar-731/WordPuzzle/internal/session"
	"github.com/MuraliDhar-731/WordPuzzle/internal/store"
)

const testSalt = "test_salt"

type harness struct {
	srv   *httptest.Server
	lex   *lexicon.Static
	clock *quartz.Mock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	clk := quartz.NewMock(t)
	clk.Set(time.Now()).MustWait(ctx)

	lex, err := lexicon.Load("")
	require.NoError(t, err)

	db, err := history.Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	migrations, err := assets.Migrations()
	require.NoError(t, err)
	require.NoError(t, history.Migrate(db, migrations))
	hist := history.NewStore(db)

	cfg := policy.DefaultConfig()
	cfg.Epsilon = 0
	eng, err := policy.NewEngine(cfg, policy.NewRand(1), nil)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	orch, err := session.New(session.Options{
		Lexicon: lex,
		Engine:  eng,
		Store:   policy.NewMemoryStore(),
		History: hist,
		Metrics: metrics.New(reg),
		Clock:   clk,
		Rand:    policy.NewRand(2),
	})
	require.NoError(t, err)

	s := New(Deps{
		Orchestrator: orch,
		Rounds:       store.NewMemoryStore(clk),
		History:      hist,
		Daily:        daily.NewStore(db),
		Lexicon:      lex,
		DailySalt:    testSalt,
		Tokens:       TokenConfig{Secret: "test_secret"},
		ClientOrigin: "http://example.test",
		Gatherer:     reg,
		Clock:        clk,
	})
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return &harness{srv: ts, lex: lex, clock: clk}
}

func newClient(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

// call sends a JSON request and decodes the response into out when non-nil.
func call(t *testing.T, c *http.Client, method, url string, body any, out any, hdr ...string) int {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	res, err := c.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func TestHealthAndCORS(t *testing.T) {
	h := newHarness(t)
	res, err := http.Get(h.srv.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "http://example.test", res.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, res.Header.Get("Content-Type"), "application/json")

	req, _ := http.NewRequest(http.MethodOptions, h.srv.URL+"/round/new", nil)
	res2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res2.Body.Close()
	assert.Equal(t, http.StatusNoContent, res2.StatusCode)

	var nf map[string]string
	assert.Equal(t, http.StatusNotFound, call(t, http.DefaultClient, http.MethodGet, h.srv.URL+"/nope", nil, &nf))
	assert.Equal(t, "not_found", nf["error"])
}

func TestRoundFlow(t *testing.T) {
	h := newHarness(t)
	c := newClient(t)
	base := h.srv.URL

	var v session.View
	require.Equal(t, http.StatusOK, call(t, c, http.MethodPost, base+"/round/new", map[string]string{"word": "garden"}, &v))
	assert.Equal(t, "_ _ _ _ _ _", v.Masked)
	assert.Equal(t, 6, v.Length)
	assert.NotEmpty(t, v.Definition)
	assert.Empty(t, v.Word)
	roundURL := base + "/round/" + v.RoundID

	var g guessRes
	require.Equal(t, http.StatusOK, call(t, c, http.MethodPost, roundURL+"/guess", map[string]string{"guess": "z"}, &g))
	assert.Equal(t, "letter_absent", string(g.Result.Outcome))
	assert.Equal(t, -1.0, g.Result.Reward)
	assert.InDelta(t, -0.1, g.Result.Estimate, 1e-12)
	assert.Equal(t, 1, g.Round.Attempts)

	var hr hintRes
	require.Equal(t, http.StatusOK, call(t, c, http.MethodPost, roundURL+"/hint", map[string]string{"class": "synonym"}, &hr))
	assert.True(t, hr.Shown)
	assert.NotEmpty(t, hr.Round.Synonyms)
	assert.Equal(t, 1, hr.Round.HintsUsed)

	var e map[string]string
	assert.Equal(t, http.StatusBadRequest, call(t, c, http.MethodPost, roundURL+"/hint", map[string]string{"class": "rhyme"}, &e))
	assert.Equal(t, "unknown_hint", e["error"])
	assert.Equal(t, http.StatusBadRequest, call(t, c, http.MethodPost, roundURL+"/guess", map[string]string{"guess": "9"}, &e))
	assert.Equal(t, "invalid_guess", e["error"])

	require.Equal(t, http.StatusOK, call(t, c, http.MethodPost, roundURL+"/guess", map[string]string{"guess": "garden"}, &g))
	assert.True(t, g.Result.Solved)
	assert.Equal(t, 10.0, g.Result.Reward)
	assert.Equal(t, "garden", g.Round.Word)
	assert.NotEmpty(t, g.Round.Difficulty)

	assert.Equal(t, http.StatusConflict, call(t, c, http.MethodPost, roundURL+"/guess", map[string]string{"guess": "g"}, &e))

	// other players cannot see the round
	assert.Equal(t, http.StatusNotFound, call(t, newClient(t), http.MethodGet, roundURL, nil, &e))

	var mine []history.Record
	require.Equal(t, http.StatusOK, call(t, c, http.MethodGet, base+"/history/mine", nil, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, v.RoundID, mine[0].RoundID)
	assert.Equal(t, 2, mine[0].Attempts)

	var best []history.Record
	require.Equal(t, http.StatusOK, call(t, newClient(t), http.MethodGet, base+"/history/best?limit=5", nil, &best))
	assert.Len(t, best, 1)

	var rows []policyRow
	require.Equal(t, http.StatusOK, call(t, c, http.MethodGet, base+"/policy", nil, &rows))
	require.NotEmpty(t, rows)
	assert.Equal(t, policy.State("0_0"), rows[0].State)
	assert.InDelta(t, -0.1, rows[0].Values[policy.NoOp], 1e-12)
}

func TestPlayerTokenKeepsGuestIdentity(t *testing.T) {
	h := newHarness(t)
	c := newClient(t)
	base := h.srv.URL

	var v session.View
	require.Equal(t, http.StatusOK, call(t, c, http.MethodPost, base+"/round/new", map[string]string{"word": "anchor"}, &v))

	var e map[string]string
	assert.Equal(t, http.StatusBadRequest, call(t, c, http.MethodPost, base+"/player/token", map[string]string{"name": "x!"}, &e))

	var tok tokenRes
	require.Equal(t, http.StatusOK, call(t, c, http.MethodPost, base+"/player/token", map[string]string{"name": "ada"}, &tok))
	assert.Equal(t, "ada", tok.Name)
	assert.NotEmpty(t, tok.Token)

	// bearer alone, no cookies, reaches the same round
	anon := &http.Client{}
	var me Player
	require.Equal(t, http.StatusOK, call(t, anon, http.MethodGet, base+"/player/me", nil, &me, "Authorization", "Bearer "+tok.Token))
	assert.Equal(t, tok.ID, me.ID)
	var got session.View
	assert.Equal(t, http.StatusOK, call(t, anon, http.MethodGet, base+"/round/"+v.RoundID, nil, &got, "Authorization", "Bearer "+tok.Token))
	assert.Equal(t, v.RoundID, got.RoundID)

	assert.Equal(t, http.StatusUnauthorized, call(t, anon, http.MethodGet, base+"/player/me", nil, &e))
	assert.Equal(t, http.StatusUnauthorized, call(t, anon, http.MethodGet, base+"/player/me", nil, &e, "Authorization", "Bearer garbage"))
}

func TestDailyRound(t *testing.T) {
	h := newHarness(t)
	c := newClient(t)
	base := h.srv.URL

	var first dailyNewRes
	require.Equal(t, http.StatusOK, call(t, c, http.MethodPost, base+"/daily/new", nil, &first))
	require.NotNil(t, first.Round)
	assert.False(t, first.Played)

	var again dailyNewRes
	require.Equal(t, http.StatusOK, call(t, c, http.MethodPost, base+"/daily/new", nil, &again))
	require.NotNil(t, again.Round)
	assert.Equal(t, first.Round.RoundID, again.Round.RoundID)

	_, word, ok := daily.Word(h.clock.Now(), testSalt, h.lex.Candidates(lexicon.DefaultMinLen, lexicon.DefaultMaxLen))
	require.True(t, ok)
	var g guessRes
	require.Equal(t, http.StatusOK, call(t, c, http.MethodPost, base+"/round/"+first.Round.RoundID+"/guess", map[string]string{"guess": word}, &g))
	assert.True(t, g.Result.Solved)

	var lb lbRes
	require.Equal(t, http.StatusOK, call(t, c, http.MethodGet, base+"/daily/leaderboard", nil, &lb))
	assert.Equal(t, first.Date, lb.Date)
	require.Len(t, lb.Top, 1)
	assert.Equal(t, 1, lb.Top[0].Attempts)

	var done dailyNewRes
	require.Equal(t, http.StatusOK, call(t, c, http.MethodPost, base+"/daily/new", nil, &done))
	assert.True(t, done.Played)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t)
	c := newClient(t)
	var v session.View
	require.Equal(t, http.StatusOK, call(t, c, http.MethodPost, h.srv.URL+"/round/new", nil, &v))

	res, err := http.Get(h.srv.URL + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), "wordpuzzle_rounds_started_total 1")
}
