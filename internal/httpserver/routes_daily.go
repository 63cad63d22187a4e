// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Board" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's board (creates or reuses session)
//   - POST /daily/score       → finalize: reveal the board, persist the score
//   - GET  /daily/leaderboard → fetch top 20 scores for today (or a given date)
//
// Each user scores once per day (enforced by DB + in-memory session).
// Sessions are held in memory for active play and persisted to DB when the
// player cashes in. Every player sees the same board: the letters are drawn
// from an RNG seeded with HMAC(salt, date).

package httpserver

import (
	"encoding/json"
	mrand "math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Isaiah-Swank/Boggle-AI/internal/daily"
	"github.com/Isaiah-Swank/Boggle-AI/internal/game"
	"github.com/Isaiah-Swank/Boggle-AI/internal/grid"
	"github.com/Isaiah-Swank/Boggle-AI/internal/lexicon"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]*dailyRound // active rounds keyed by userID|date
	mu       sync.Mutex             // guards sessions
}

// dailyRound holds transient in-memory state for an in-progress daily board.
type dailyRound struct {
	GameID string
	UserID string
	Date   string
	Start  time.Time
	Scored bool
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     getEnv("DAILY_SALT", "local_dev_salt"),
		sessions: make(map[string]*dailyRound),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/score", dd.handleScore)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// boardForNow returns today's date key and the deterministic daily board.
func (d *dailyServer) boardForNow() (date string, board grid.Grid) {
	now := time.Now().UTC()
	date = daily.DateKey(now)
	rng := mrand.New(mrand.NewSource(daily.GridSeed(now, d.salt)))
	return date, grid.NewRandom(grid.DefaultSize, rng)
}

// userIDWithAnon returns the authenticated user ID if logged in,
// otherwise ensures an anonymous ID via Server.ensureAnonID.
func (d *dailyServer) userIDWithAnon(w http.ResponseWriter, r *http.Request) (string, bool) {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID, true
	}
	return d.srv.ensureAnonID(w, r), true
}

// -----------------------------------------------------------------------------
// /daily/new

// newRes is returned by /daily/new.
type newRes struct {
	GameID string   `json:"gameId"`
	Date   string   `json:"date"`
	Grid   []string `json:"grid,omitempty"`
	Played bool     `json:"played"`
}

// handleNew creates or reuses a daily session for the current date.
// - If user already has a DB row for today → return Played=true.
// - Otherwise create/reuse an in-memory session and return GameID + board.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid, ok := d.userIDWithAnon(w, r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	date, board := d.boardForNow()

	// Check if already played (persisted in DB).
	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		_ = json.NewEncoder(w).Encode(newRes{GameID: "", Date: date, Played: true})
		return
	}

	// Reuse or create session in memory.
	key := uid + "|" + date
	d.mu.Lock()
	if round, ok := d.sessions[key]; ok {
		d.mu.Unlock()
		_ = json.NewEncoder(w).Encode(newRes{GameID: round.GameID, Date: date, Grid: board.Rows(), Played: false})
		return
	}

	// Daily boards are never redrawn: a post-reveal reset keeps the board.
	sess := game.NewSession(board, lexicon.Default(), nil)
	if err := d.srv.store.Save(r.Context(), sess); err != nil {
		d.mu.Unlock()
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	round := &dailyRound{
		GameID: sess.ID,
		UserID: uid,
		Date:   date,
		Start:  time.Now(),
	}
	d.sessions[key] = round
	d.mu.Unlock()

	_ = json.NewEncoder(w).Encode(newRes{GameID: round.GameID, Date: date, Grid: board.Rows(), Played: false})
}

// -----------------------------------------------------------------------------
// /daily/score

// dailyScoreReq is the request payload for /daily/score.
type dailyScoreReq struct {
	GameID string `json:"gameId"`
}

// dailyScoreRes is the response payload for /daily/score.
type dailyScoreRes struct {
	Score int    `json:"score"`
	Words int    `json:"words"`
	State string `json:"state"` // scored | locked
}

// handleScore finalizes today's round: the session reveals (ending play) and
// the give-up score becomes the user's daily result, persisted exactly once.
func (d *dailyServer) handleScore(w http.ResponseWriter, r *http.Request) {
	uid, ok := d.userIDWithAnon(w, r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var p dailyScoreReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.GameID == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	date, _ := d.boardForNow()

	// Find session.
	key := uid + "|" + date
	d.mu.Lock()
	round, ok := d.sessions[key]
	d.mu.Unlock()
	if !ok || round.GameID != p.GameID {
		http.Error(w, "no session", http.StatusConflict)
		return
	}
	if round.Scored {
		_ = json.NewEncoder(w).Encode(dailyScoreRes{State: "locked"})
		return
	}

	var score, words int
	if err := d.srv.store.Update(r.Context(), round.GameID, func(sess *game.Session) {
		score = sess.Score()
		words = len(sess.Found())
		sess.RequestReveal(time.Now())
	}); err != nil {
		http.Error(w, "no session", http.StatusConflict)
		return
	}

	d.mu.Lock()
	round.Scored = true
	d.mu.Unlock()

	elapsed := int(time.Since(round.Start).Milliseconds())
	_ = d.store.InsertResult(r.Context(), daily.Result{
		UserID: uid, Date: date, Score: score, Words: words, ElapsedMs: elapsed,
	})
	_ = json.NewEncoder(w).Encode(dailyScoreRes{Score: score, Words: words, State: "scored"})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date, _ = d.boardForNow()
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
