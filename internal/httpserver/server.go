// internal/httpserver/server.go
//
// HTTP server wiring for the Boggle backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/lexicon".
//   - Round endpoints (optional auth): POST /game/new, /game/select,
//     /game/submit, /game/reveal, /game/reset and GET /game/state.
//   - Daily board endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints (require auth): /auth/*, /stats/me,
//     /rounds/mine.
//   - JWT + cookie handling, anonymous session cookie, user CRUD helpers.
//   - Database persistence for rounds and user stats.
//
// The server is the "host loop" from the engine's point of view: every
// session event arrives through a store.Update call, which serializes
// mutation, and GET /game/state doubles as the per-frame tick (the client's
// poll cadence is the tick cadence).

package httpserver

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	mrand "math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/Isaiah-Swank/Boggle-AI/internal/game"
	"github.com/Isaiah-Swank/Boggle-AI/internal/grid"
	"github.com/Isaiah-Swank/Boggle-AI/internal/lexicon"
	"github.com/Isaiah-Swank/Boggle-AI/internal/store"
)

// Server bundles router, in-memory session store, and DB handle.
type Server struct {
	r     *chi.Mux
	store store.Store
	db    *sql.DB

	rngMu sync.Mutex  // guards rng; math/rand.Rand is not goroutine-safe
	rng   *mrand.Rand // board letter source for non-daily rounds
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB) *Server {
	s := &Server{r: chi.NewRouter(), store: st, db: db, rng: newRNG()}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"boggle-go","endpoints":["/health","POST /game/new","POST /game/select","POST /game/submit","POST /game/reveal","GET /game/state","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Round endpoints — OPTIONAL AUTH (guests can play)
	rounds := s.r.With(s.withOptionalAuth())
	rounds.Post("/game/new", s.handleNewRound)
	rounds.Post("/game/select", s.handleSelect)
	rounds.Post("/game/submit", s.handleSubmit)
	rounds.Post("/game/reveal", s.handleReveal)
	rounds.Post("/game/reset", s.handleReset)
	rounds.Get("/game/state", s.handleState)

	// Daily board — OPTIONAL AUTH (guests can play; score persisted once)
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats (require auth)
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	// Debug: lexicon counts
	s.r.Get("/debug/lexicon", func(w http.ResponseWriter, r *http.Request) {
		words, prefixes := lexicon.Default().Stats()
		_ = json.NewEncoder(w).Encode(map[string]int{"words": words, "prefixes": prefixes})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ ROUNDS -------------------------------------

// newRoundReq/Res payloads for POST /game/new.
type newRoundReq struct {
	Size    int      `json:"size"`    // board side length; default 4
	Letters []string `json:"letters"` // optional fixed board rows (testing)
}

// handleNewRound creates a new in-memory round and persists a DB "owner" row
// (either user_id or anonymous_id) for history/stats.
func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	var req newRoundReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	size := req.Size
	if size <= 0 {
		size = grid.DefaultSize
	}

	var board grid.Grid
	if len(req.Letters) > 0 {
		var err error
		board, err = grid.Parse(req.Letters)
		if err != nil {
			http.Error(w, `{"error":"bad_board"}`, http.StatusBadRequest)
			return
		}
	} else {
		board = s.drawBoard(size)
	}

	sess := game.NewSession(board, lexicon.Default(), func() grid.Grid { return s.drawBoard(size) })
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	// Persist owner row for history/stats (best effort).
	now := time.Now().UTC().Format(time.RFC3339)
	boardStr := strings.Join(board.Rows(), "/")
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		_, err := s.db.Exec(`INSERT INTO rounds (id, user_id, board, started_at, status, score, words_found)
		                     VALUES (?,?,?,?,?,0,0)`, sess.ID, me.ID, boardStr, now, "playing")
		if err != nil {
			log.Warn().Err(err).Str("roundId", sess.ID).Msg("insert user round row")
		}
	} else {
		anon := s.ensureAnonID(w, r)
		_, err := s.db.Exec(`INSERT INTO rounds (id, anonymous_id, board, started_at, status, score, words_found)
		                     VALUES (?,?,?,?,?,0,0)`, sess.ID, anon, boardStr, now, "playing")
		if err != nil {
			log.Warn().Err(err).Str("roundId", sess.ID).Msg("insert anon round row")
		}
	}

	_ = json.NewEncoder(w).Encode(sess.Snapshot())
}

// selectReq is the payload for POST /game/select.
type selectReq struct {
	GameID string `json:"gameId"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
}

// handleSelect feeds one cell click into the session.
// An illegal click is a silent no-op in the engine; the handler still
// returns the (unchanged) snapshot.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	s.withSession(w, r, req.GameID, func(sess *game.Session) {
		sess.Select(grid.Position{Row: req.Row, Col: req.Col})
	})
}

// idReq is the shared one-field payload for submit/reveal/reset/state.
type idReq struct {
	GameID string `json:"gameId"`
}

// handleSubmit checks the current selection against the lexicon.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req idReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	s.withSession(w, r, req.GameID, func(sess *game.Session) {
		sess.Submit()
	})
}

// handleReveal gives up the round and starts the timed disclosure.
// The player's final (pre-reveal) score is persisted to the rounds table.
func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	var req idReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	var score, words int
	var started bool
	snap, err := s.updateSession(r, req.GameID, func(sess *game.Session) {
		before := sess.Phase()
		score = sess.Score()
		words = len(sess.Found())
		sess.RequestReveal(time.Now())
		started = before == game.PhaseSelecting && sess.Phase() == game.PhaseRevealing
	})
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if started {
		s.finishRound(r, req.GameID, score, words)
	}
	_ = json.NewEncoder(w).Encode(snap)
}

// handleReset redraws the board and clears all round state.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req idReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	s.withSession(w, r, req.GameID, func(sess *game.Session) {
		sess.Reset()
	})
}

// handleState is the per-frame poll: it ticks the session (advancing any
// in-progress reveal) and returns the snapshot.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("gameId")
	if id == "" {
		http.Error(w, `{"error":"missing_gameId"}`, http.StatusBadRequest)
		return
	}
	s.withSession(w, r, id, func(sess *game.Session) {
		sess.Tick(time.Now())
	})
}

// withSession applies fn to the session and writes the resulting snapshot.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, id string, fn func(*game.Session)) {
	snap, err := s.updateSession(r, id, fn)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(snap)
}

// updateSession runs fn under the store's lock and captures a snapshot.
func (s *Server) updateSession(r *http.Request, id string, fn func(*game.Session)) (game.Snapshot, error) {
	var snap game.Snapshot
	err := s.store.Update(r.Context(), id, func(sess *game.Session) {
		fn(sess)
		snap = sess.Snapshot()
	})
	return snap, err
}

// finishRound records the give-up score on the rounds row and bumps user
// stats. Best effort, non-fatal if it fails.
func (s *Server) finishRound(r *http.Request, roundID string, score, words int) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)

	tx, err := s.db.Begin()
	if err != nil {
		log.Warn().Err(err).Msg("begin finish tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	// Round IDs are crypto-random, so the ID alone is the lookup key.
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(`UPDATE rounds SET status=?, score=?, words_found=?, finished_at=? WHERE id=?`,
		"revealed", score, words, now, roundID); err != nil {
		log.Warn().Err(err).Msg("finish round")
	}
	if me != nil {
		if err := s.bumpStats(tx, me.ID, score, words); err != nil {
			log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
		}
	}
	_ = tx.Commit()
}

// drawBoard produces a random board under the rng lock.
func (s *Server) drawBoard(size int) grid.Grid {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return grid.NewRandom(size, s.rng)
}

// newRNG seeds a math/rand source from crypto entropy.
func newRNG() *mrand.Rand {
	seed, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	if err != nil {
		return mrand.New(mrand.NewSource(time.Now().UnixNano()))
	}
	return mrand.New(mrand.NewSource(seed.Int64()))
}

// ------------------------------- AUTH --------------------------------------

// Request payloads for signup/login.
type signupReq struct{ Username, Password string }
type loginReq struct{ Username, Password string }

// authUser is placed into request context by auth middleware.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// mountAuthRoutes registers authentication + gated routes (/auth/*, /stats/me, /rounds/mine).
func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)

	// Current user (gated)
	s.r.With(s.requireAuth()).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
		if me == nil {
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(me)
	})

	// Stats (gated)
	s.r.With(s.requireAuth()).Get("/stats/me", func(w http.ResponseWriter, r *http.Request) {
		me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
		if me == nil {
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}
		u, err := s.findUserByID(me.ID)
		if err != nil {
			http.Error(w, `{"error":"not_found"}`, http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":           u.ID,
			"roundsPlayed": u.RoundsPlayed,
			"bestScore":    u.BestScore,
			"totalWords":   u.TotalWords,
		})
	})

	// Recent rounds (gated)
	s.r.With(s.requireAuth()).Get("/rounds/mine", func(w http.ResponseWriter, r *http.Request) {
		me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
		if me == nil {
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}
		rows, err := s.db.Query(`SELECT id, status, score, words_found, started_at, COALESCE(finished_at,'')
		                         FROM rounds WHERE user_id=? ORDER BY started_at DESC LIMIT 50`, me.ID)
		if err != nil {
			http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		type roundRow struct {
			ID         string `json:"id"`
			Status     string `json:"status"`
			Score      int    `json:"score"`
			WordsFound int    `json:"wordsFound"`
			StartedAt  string `json:"startedAt"`
			FinishedAt string `json:"finishedAt,omitempty"`
		}
		out := []roundRow{}
		for rows.Next() {
			var rr roundRow
			if err := rows.Scan(&rr.ID, &rr.Status, &rr.Score, &rr.WordsFound, &rr.StartedAt, &rr.FinishedAt); err == nil {
				out = append(out, rr)
			}
		}
		_ = json.NewEncoder(w).Encode(out)
	})
}

// handleSignup creates a new user, signs a JWT, sets auth cookie, and claims anon history.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body signupReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	u, err := s.createUser(body.Username, body.Password)
	if err != nil {
		if err.Error() == "username taken" {
			http.Error(w, `{"error":"Username taken"}`, http.StatusConflict)
			return
		}
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	tok, exp, err := s.signJWT(u.ID, u.Username)
	if err != nil {
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	s.setAuthCookie(w, tok, exp)
	// Attach any anonymous rounds to the new account
	s.claimAnonRounds(s.ensureAnonID(w, r), u.ID)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": u.ID, "username": u.Username, "createdAt": u.CreatedAt})
}

// handleLogin authenticates user, sets cookie, and claims anon history.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	u, err := s.findUserByUsername(strings.TrimSpace(body.Username))
	if err != nil || !checkPassword(u.PasswordHash, body.Password) {
		http.Error(w, `{"error":"Invalid username or password"}`, http.StatusUnauthorized)
		return
	}
	tok, exp, err := s.signJWT(u.ID, u.Username)
	if err != nil {
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	s.setAuthCookie(w, tok, exp)
	s.claimAnonRounds(s.ensureAnonID(w, r), u.ID)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": u.ID, "username": u.Username})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearAuthCookie(w)
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// --------------------------- optional auth ---------------------------------

// withOptionalAuth decorates requests with user context if a valid JWT is present.
// It never 401s; used for routes where guests are allowed.
func (s *Server) withOptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := bearerOrCookie(r); tok != "" {
				claims := jwt.MapClaims{}
				if t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
					return []byte(getEnv("JWT_SECRET", "dev_secret_change_me")), nil
				}); err == nil && t.Valid {
					if id, _ := claims["id"].(string); id != "" {
						if u, err := s.findUserByID(id); err == nil {
							ctx := context.WithValue(r.Context(), ctxUserKey{}, &authUser{ID: u.ID, Username: u.Username})
							r = r.WithContext(ctx)
						}
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

const anonCookieName = "boggle_anon"

// ensureAnonID returns an existing anon cookie or sets a new one.
// Used to associate guest rounds with a stable identifier.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := genID()
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   os.Getenv("NODE_ENV") == "production",
		SameSite: func() http.SameSite {
			if os.Getenv("NODE_ENV") == "production" {
				return http.SameSiteNoneMode
			}
			return http.SameSiteLaxMode
		}(),
		Expires: time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}

// claimAnonRounds transfers any anonymous rounds to a user account after auth.
func (s *Server) claimAnonRounds(anonID, userID string) {
	if anonID == "" || userID == "" {
		return
	}
	if _, err := s.db.Exec(`UPDATE rounds SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID); err != nil {
		log.Warn().Err(err).Msg("claim anon rounds")
	}
}

// ------------------------ auth helpers & users -----------------------------

// userRow matches the users table shape.
type userRow struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	RoundsPlayed int
	BestScore    int
	TotalWords   int
}

// createUser validates input, checks uniqueness, hashes password, and inserts a new user.
func (s *Server) createUser(username, pw string) (*userRow, error) {
	username = normalizeUsername(username)
	if err := validateSignup(username, pw); err != nil {
		return nil, err
	}
	var exists int
	_ = s.db.QueryRow(`SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	if exists == 1 {
		return nil, errors.New("username taken")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	id := genID()
	if _, err := s.db.Exec(`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		id, username, string(h), now); err != nil {
		return nil, err
	}
	return &userRow{ID: id, Username: username, PasswordHash: string(h), CreatedAt: mustParse(now)}, nil
}

// findUserByUsername/ID load a user row or return an error if missing.
func (s *Server) findUserByUsername(username string) (*userRow, error) {
	row := s.db.QueryRow(`SELECT id, username, password_hash, created_at, rounds_played, best_score, total_words
	                      FROM users WHERE lower(username)=lower(?)`, username)
	return scanUser(row)
}
func (s *Server) findUserByID(id string) (*userRow, error) {
	row := s.db.QueryRow(`SELECT id, username, password_hash, created_at, rounds_played, best_score, total_words
	                      FROM users WHERE id=?`, id)
	return scanUser(row)
}

// scanUser converts a *sql.Row into a userRow.
func scanUser(row *sql.Row) (*userRow, error) {
	var u userRow
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created, &u.RoundsPlayed, &u.BestScore, &u.TotalWords); err != nil {
		return nil, err
	}
	u.CreatedAt = mustParse(created)
	return &u, nil
}

// mustParse parses RFC3339 timestamps; on error returns zero time.
func mustParse(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// checkPassword is a bcrypt verifier.
func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// normalizeUsername trims whitespace; adjust here if you want stricter rules.
func normalizeUsername(u string) string {
	return strings.TrimSpace(u)
}

// validateSignup enforces basic username/password rules.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3–24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 100 {
		return errors.New("password must be 8–100 chars")
	}
	return nil
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	s := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b[:])
	if len(s) > 22 {
		return s[:22]
	}
	return s
}

// bumpStats increments rounds played and running totals; tracks the best
// give-up score (within tx).
func (s *Server) bumpStats(tx *sql.Tx, userID string, score, words int) error {
	var rp, best, total int
	row := tx.QueryRow(`SELECT rounds_played, best_score, total_words FROM users WHERE id=?`, userID)
	if err := row.Scan(&rp, &best, &total); err != nil {
		return err
	}
	rp++
	if score > best {
		best = score
	}
	total += words
	_, err := tx.Exec(`UPDATE users SET rounds_played=?, best_score=?, total_words=? WHERE id=?`, rp, best, total, userID)
	return err
}

// ------------------------------ JWT & cookies ------------------------------

// signJWT creates an HS256 JWT with id/username and a configurable expiry (JWT_EXPIRES_DAYS; default 14).
func (s *Server) signJWT(id, username string) (string, time.Time, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev_secret_change_me"
	}
	days := 14
	if v := os.Getenv("JWT_EXPIRES_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			days = n
		}
	}
	exp := time.Now().Add(time.Duration(days) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      time.Now().Unix(),
	})
	ss, err := t.SignedString([]byte(secret))
	return ss, exp, err
}

// setAuthCookie writes the auth token cookie with appropriate security attributes.
func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	name := getEnv("COOKIE_NAME", "boggle_token")
	secure := os.Getenv("NODE_ENV") == "production"
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// clearAuthCookie deletes the auth token cookie.
func (s *Server) clearAuthCookie(w http.ResponseWriter) {
	name := getEnv("COOKIE_NAME", "boggle_token")
	secure := os.Getenv("NODE_ENV") == "production"
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		MaxAge:   -1,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func bearerOrCookie(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(getEnv("COOKIE_NAME", "boggle_token")); err == nil {
		return c.Value
	}
	return ""
}

// ---------------------------- auth middleware ------------------------------

// ctxUserKey is the context key type for storing authUser.
type ctxUserKey struct{}

// requireAuth enforces a valid JWT and injects authUser into request context.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerOrCookie(r)
			if tokenStr == "" {
				http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
				return
			}
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				return []byte(getEnv("JWT_SECRET", "dev_secret_change_me")), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
				return
			}
			id, _ := claims["id"].(string)
			username, _ := claims["username"].(string)
			if id == "" || username == "" {
				http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
				return
			}
			// Ensure user still exists
			if _, err := s.findUserByID(id); err != nil {
				http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), ctxUserKey{}, &authUser{ID: id, Username: username})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ------------------------------- small util --------------------------------

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
