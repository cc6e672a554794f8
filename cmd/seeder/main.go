// Command seeder runs a local stand-in for the stats server so the dashboard
// can be developed without real credentials. It generates a random player
// population and speaks the same endpoints, including the envelope response
// shape, pagination, filter bounds and the session cookie check.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/cuongdevv/track/internal/trackstat"
)

var petRanks = []string{"A", "A", "B", "S", "SS", "G"}

var gamePasses = []string{"VIP", "2x Cash", "2x Gems", "Auto Collect", "Extra Slot"}

type seedStore struct {
	mu       sync.Mutex
	players  []trackstat.PlayerRecord
	accounts map[string]string // username -> cookie
	session  string
	legacy   bool
}

func newSeedStore(n int, session string, legacy bool) *seedStore {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	s := &seedStore{
		accounts: make(map[string]string),
		session:  session,
		legacy:   legacy,
	}
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("Player_%s", uuid.NewString()[:8])
		pets := make([]trackstat.Pet, rng.Intn(12))
		for j := range pets {
			rank := petRanks[rng.Intn(len(petRanks))]
			pets[j] = trackstat.Pet{
				Name: fmt.Sprintf("Pet%d", j),
				Rank: rank,
			}
		}
		passes := make([]trackstat.GamePass, rng.Intn(len(gamePasses)))
		for j := range passes {
			passes[j] = trackstat.GamePass{Name: gamePasses[j]}
		}
		s.players = append(s.players, trackstat.PlayerRecord{
			PlayerName: name,
			Cash:       int64(rng.Intn(10_000_000)),
			Gems:       int64(rng.Intn(50_000)),
			PetsList:   pets,
			PassesList: passes,
			ItemsList:  []trackstat.Item{{Name: "Ticket", Amount: int64(rng.Intn(500))}},
			Timestamp:  time.Now().Add(-time.Duration(rng.Intn(72)) * time.Hour).UTC().Format(time.RFC3339),
		})
		s.accounts[strings.ToLower(name)] = uuid.NewString()
	}
	return s
}

func (s *seedStore) authorized(r *http.Request) bool {
	cookie, err := r.Cookie("session")
	return err == nil && cookie.Value == s.session
}

func (s *seedStore) requireAuth(w http.ResponseWriter, r *http.Request) bool {
	if !s.authorized(r) {
		http.Error(w, `{"detail":"Not authenticated"}`, http.StatusUnauthorized)
		return false
	}
	return true
}

func parseIntOr(q map[string][]string, key string, fallback int) int {
	values, ok := q[key]
	if !ok || len(values) == 0 {
		return fallback
	}
	v, err := strconv.Atoi(values[0])
	if err != nil {
		return fallback
	}
	return v
}

func parseInt64Bound(q map[string][]string, key string, fallback int64) int64 {
	values, ok := q[key]
	if !ok || len(values) == 0 {
		return fallback
	}
	v, err := strconv.ParseInt(values[0], 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

func (s *seedStore) latestHandler(w http.ResponseWriter, r *http.Request) {
	if !s.requireAuth(w, r) {
		return
	}
	q := r.URL.Query()
	page := parseIntOr(q, "page", 1)
	pageSize := parseIntOr(q, "page_size", 20)
	search := strings.ToLower(strings.TrimSpace(q.Get("search")))
	cashMin := parseInt64Bound(q, "cash_min", 0)
	cashMax := parseInt64Bound(q, "cash_max", 1<<62)
	gemsMin := parseInt64Bound(q, "gems_min", 0)
	gemsMax := parseInt64Bound(q, "gems_max", 1<<62)

	s.mu.Lock()
	matched := make([]trackstat.PlayerRecord, 0, len(s.players))
	for _, p := range s.players {
		if p.Cash < cashMin || p.Cash > cashMax || p.Gems < gemsMin || p.Gems > gemsMax {
			continue
		}
		if search != "" && !p.MatchesSearch(search) {
			continue
		}
		matched = append(matched, p)
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if s.legacy {
		// Old deployments returned the bare array with no pagination block.
		_ = json.NewEncoder(w).Encode(matched)
		return
	}

	totalItems := len(matched)
	totalPages := (totalItems + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > totalItems {
		start = totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": matched[start:end],
		"pagination": map[string]int{
			"page":        page,
			"total_items": totalItems,
			"total_pages": totalPages,
		},
	})
}

func (s *seedStore) deletePlayerHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.requireAuth(w, r) {
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/api/player/")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.players {
		if p.PlayerName == name {
			s.players = append(s.players[:i], s.players[i+1:]...)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success":         true,
				"deleted_count":   1,
				"remaining_count": len(s.players),
			})
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"detail":  fmt.Sprintf("player %q not found", name),
	})
}

func (s *seedStore) accountsHandler(w http.ResponseWriter, r *http.Request) {
	if !s.requireAuth(w, r) {
		return
	}

	// /api/accounts/{username}/cookie
	if rest := strings.TrimPrefix(r.URL.Path, "/api/accounts/"); rest != r.URL.Path && strings.HasSuffix(rest, "/cookie") {
		username := strings.ToLower(strings.TrimSuffix(rest, "/cookie"))
		s.mu.Lock()
		cookie, ok := s.accounts[username]
		s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		if !ok {
			_ = json.NewEncoder(w).Encode(map[string]string{"cookie": ""})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"cookie": cookie})
		return
	}

	page := parseIntOr(r.URL.Query(), "page", 1)
	pageSize := parseIntOr(r.URL.Query(), "page_size", 20)

	s.mu.Lock()
	usernames := make([]string, 0, len(s.accounts))
	for username := range s.accounts {
		usernames = append(usernames, username)
	}
	s.mu.Unlock()

	totalPages := (len(usernames) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(usernames) {
		start = len(usernames)
	}
	if end > len(usernames) {
		end = len(usernames)
	}

	accounts := make([]map[string]any, 0, end-start)
	for _, username := range usernames[start:end] {
		accounts = append(accounts, map[string]any{"username": username, "has_cookie": true})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": accounts,
		"pagination": map[string]int{
			"page":        page,
			"total_items": len(usernames),
			"total_pages": totalPages,
		},
	})
}

func (s *seedStore) importHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.requireAuth(w, r) {
		return
	}

	var payload struct {
		Accounts string `json:"accounts"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, `{"detail":"invalid body"}`, http.StatusBadRequest)
		return
	}

	results := make([]map[string]any, 0)
	successful, failed := 0, 0

	s.mu.Lock()
	for _, line := range strings.Split(payload.Accounts, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			failed++
			results = append(results, map[string]any{"username": parts[0], "success": false, "message": "expected username:password"})
			continue
		}
		username := strings.ToLower(parts[0])
		if _, exists := s.accounts[username]; !exists {
			s.accounts[username] = uuid.NewString()
		}
		successful++
		results = append(results, map[string]any{"username": parts[0], "success": true})
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":    failed == 0,
		"successful": successful,
		"failed":     failed,
		"total":      successful + failed,
		"results":    results,
	})
}

func (s *seedStore) probeHandler(w http.ResponseWriter, r *http.Request) {
	if !s.requireAuth(w, r) {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func main() {
	var (
		addr    = flag.String("addr", ":9000", "listen address")
		count   = flag.Int("players", 250, "number of players to generate")
		session = flag.String("session", "dev", "session cookie value the stub accepts")
		legacy  = flag.Bool("legacy", false, "serve the bare-array response shape instead of the envelope")
	)
	flag.Parse()

	log.Info("Starting stats server stub...", "addr", *addr, "players", *count, "legacy", *legacy)
	store := newSeedStore(*count, *session, *legacy)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/latest", store.latestHandler)
	mux.HandleFunc("/api/player/", store.deletePlayerHandler)
	mux.HandleFunc("/api/accounts", store.accountsHandler)
	mux.HandleFunc("/api/accounts/", store.accountsHandler)
	mux.HandleFunc("/api/accounts/import", store.importHandler)
	mux.HandleFunc("/api/players", store.probeHandler)

	log.Info("Stub ready", "session", *session)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.Fatalf("Stub server failed: %s", err)
	}
}
