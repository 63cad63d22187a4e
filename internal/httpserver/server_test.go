package httpserver

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Isaiah-Swank/Boggle-AI/internal/game"
	"github.com/Isaiah-Swank/Boggle-AI/internal/store"
)

const testSchema = `
CREATE TABLE users (
    id TEXT PRIMARY KEY, username TEXT NOT NULL UNIQUE, password_hash TEXT NOT NULL,
    created_at TEXT NOT NULL, rounds_played INTEGER NOT NULL DEFAULT 0,
    best_score INTEGER NOT NULL DEFAULT 0, total_words INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE rounds (
    id TEXT PRIMARY KEY, user_id TEXT, anonymous_id TEXT, board TEXT NOT NULL,
    score INTEGER NOT NULL DEFAULT 0, words_found INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'playing', started_at TEXT NOT NULL, finished_at TEXT
);
CREATE TABLE daily_results (
    user_id TEXT NOT NULL, date TEXT NOT NULL, score INTEGER NOT NULL,
    words INTEGER NOT NULL, elapsed_ms INTEGER NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    UNIQUE(user_id, date)
);`

func newTestServer(t *testing.T) (*Server, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return New(store.NewMemoryStore(), db), db
}

// do issues a JSON request, carrying any cookies, and decodes into out.
func do(t *testing.T, srv *Server, cookies []*http.Cookie, method, path string, body any, out any) (*httptest.ResponseRecorder, []*http.Cookie) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		if err := json.NewDecoder(w.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return w, append(cookies, w.Result().Cookies()...)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	w, _ := do(t, srv, nil, "GET", "/health", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRoundFlow(t *testing.T) {
	srv, db := newTestServer(t)

	var snap game.Snapshot
	w, cookies := do(t, srv, nil, "POST", "/game/new", map[string]any{
		"letters": []string{"CATS", "OREN", "LPID", "EMGH"},
	}, &snap)
	if w.Code != http.StatusOK {
		t.Fatalf("new round: %d %s", w.Code, w.Body.String())
	}
	if snap.ID == "" || snap.Grid[0] != "CATS" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.Phase != game.PhaseSelecting {
		t.Fatalf("new round phase = %q", snap.Phase)
	}

	// Spell CAT along the top row.
	for col := 0; col < 3; col++ {
		w, cookies = do(t, srv, cookies, "POST", "/game/select", map[string]any{
			"gameId": snap.ID, "row": 0, "col": col,
		}, &snap)
		if w.Code != http.StatusOK {
			t.Fatalf("select: %d", w.Code)
		}
	}
	if snap.CurrentWord != "CAT" {
		t.Fatalf("current word = %q, want CAT", snap.CurrentWord)
	}

	w, cookies = do(t, srv, cookies, "POST", "/game/submit", map[string]any{"gameId": snap.ID}, &snap)
	if w.Code != http.StatusOK {
		t.Fatalf("submit: %d", w.Code)
	}
	if snap.Score != 1 || len(snap.Found) != 1 || snap.Found[0] != "CAT" {
		t.Fatalf("after submit: score=%d found=%v", snap.Score, snap.Found)
	}

	// Give up: the pre-reveal score is persisted on the rounds row.
	w, cookies = do(t, srv, cookies, "POST", "/game/reveal", map[string]any{"gameId": snap.ID}, &snap)
	if w.Code != http.StatusOK {
		t.Fatalf("reveal: %d", w.Code)
	}
	if snap.Phase != game.PhaseRevealing {
		t.Fatalf("phase after reveal = %q", snap.Phase)
	}

	var status string
	var score int
	if err := db.QueryRow(`SELECT status, score FROM rounds WHERE id=?`, snap.ID).Scan(&status, &score); err != nil {
		t.Fatalf("round row: %v", err)
	}
	if status != "revealed" || score != 1 {
		t.Fatalf("round row status=%q score=%d", status, score)
	}

	// State poll keeps working while revealing.
	w, _ = do(t, srv, cookies, "GET", "/game/state?gameId="+snap.ID, nil, &snap)
	if w.Code != http.StatusOK {
		t.Fatalf("state: %d", w.Code)
	}
}

func TestUnknownSession(t *testing.T) {
	srv, _ := newTestServer(t)
	w, _ := do(t, srv, nil, "POST", "/game/submit", map[string]any{"gameId": "nope"}, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	w, _ = do(t, srv, nil, "GET", "/game/state?gameId=nope", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestBadBoardRejected(t *testing.T) {
	srv, _ := newTestServer(t)
	w, _ := do(t, srv, nil, "POST", "/game/new", map[string]any{
		"letters": []string{"AB", "C"},
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for ragged board, got %d", w.Code)
	}
}

func TestDailyFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	var res struct {
		GameID string   `json:"gameId"`
		Date   string   `json:"date"`
		Grid   []string `json:"grid"`
		Played bool     `json:"played"`
	}
	w, cookies := do(t, srv, nil, "POST", "/daily/new", nil, &res)
	if w.Code != http.StatusOK {
		t.Fatalf("daily new: %d %s", w.Code, w.Body.String())
	}
	if res.GameID == "" || res.Played || len(res.Grid) != 4 {
		t.Fatalf("unexpected daily response: %+v", res)
	}

	// Second call with the same anon cookie reuses the session.
	var res2 struct {
		GameID string `json:"gameId"`
	}
	w, cookies = do(t, srv, cookies, "POST", "/daily/new", nil, &res2)
	if w.Code != http.StatusOK || res2.GameID != res.GameID {
		t.Fatalf("daily session not reused: %d %q vs %q", w.Code, res2.GameID, res.GameID)
	}

	// Cash in.
	var sc struct {
		Score int    `json:"score"`
		State string `json:"state"`
	}
	w, cookies = do(t, srv, cookies, "POST", "/daily/score", map[string]any{"gameId": res.GameID}, &sc)
	if w.Code != http.StatusOK || sc.State != "scored" {
		t.Fatalf("daily score: %d %+v", w.Code, sc)
	}

	// Second cash-in is locked.
	w, cookies = do(t, srv, cookies, "POST", "/daily/score", map[string]any{"gameId": res.GameID}, &sc)
	if w.Code != http.StatusOK || sc.State != "locked" {
		t.Fatalf("daily re-score: %d %+v", w.Code, sc)
	}

	// Leaderboard has the entry.
	var lb struct {
		Date string `json:"date"`
		Top  []struct {
			Score int `json:"score"`
		} `json:"top"`
	}
	w, _ = do(t, srv, cookies, "GET", "/daily/leaderboard", nil, &lb)
	if w.Code != http.StatusOK || len(lb.Top) != 1 {
		t.Fatalf("leaderboard: %d %+v", w.Code, lb)
	}

	// A fresh day start for the same user reports already played.
	var res3 struct {
		Played bool `json:"played"`
	}
	w, _ = do(t, srv, cookies, "POST", "/daily/new", nil, &res3)
	if w.Code != http.StatusOK || !res3.Played {
		t.Fatalf("expected played=true, got %d %+v", w.Code, res3)
	}
}

func TestAuthSignupAndStats(t *testing.T) {
	srv, _ := newTestServer(t)

	var user struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	w, cookies := do(t, srv, nil, "POST", "/auth/signup", map[string]string{
		"Username": "player_one", "Password": "hunter2hunter2",
	}, &user)
	if w.Code != http.StatusOK {
		t.Fatalf("signup: %d %s", w.Code, w.Body.String())
	}
	if user.ID == "" {
		t.Fatal("signup returned empty id")
	}

	var me struct {
		Username string `json:"username"`
	}
	w, cookies = do(t, srv, cookies, "GET", "/auth/me", nil, &me)
	if w.Code != http.StatusOK || me.Username != "player_one" {
		t.Fatalf("auth/me: %d %+v", w.Code, me)
	}

	var stats struct {
		RoundsPlayed int `json:"roundsPlayed"`
	}
	w, _ = do(t, srv, cookies, "GET", "/stats/me", nil, &stats)
	if w.Code != http.StatusOK {
		t.Fatalf("stats/me: %d", w.Code)
	}

	// Duplicate username conflicts.
	w, _ = do(t, srv, nil, "POST", "/auth/signup", map[string]string{
		"Username": "player_one", "Password": "hunter2hunter2",
	}, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}
