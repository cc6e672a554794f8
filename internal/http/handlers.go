package http

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/cuongdevv/track/internal/fetcher"
	"github.com/cuongdevv/track/internal/state"
	"github.com/cuongdevv/track/internal/trackstat"
	"github.com/cuongdevv/track/internal/view"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) RootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	}
}

// filterParamNames are the query parameters that, when present, replace the
// numeric filter bounds wholesale. An empty value resets that bound.
var filterParamNames = []string{
	"cash_min", "cash_max",
	"gems_min", "gems_max",
	"tickets_min", "tickets_max",
	"s_pets_min", "ss_pets_min",
	"gamepass_min", "gamepass_max",
}

func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		q := r.URL.Query()

		if q.Get("clear") == "1" {
			s.Fetcher.ResetFilters()
		}
		if q.Has("server_filters") {
			s.Fetcher.SetServerSideFiltering(q.Get("server_filters") == "1")
		}
		if q.Has("search") {
			s.Fetcher.SetSearch(strings.TrimSpace(q.Get("search")))
		}
		if hasFilterParams(q) {
			s.Fetcher.SetFilters(parseFilters(q))
		}
		if sizeStr := q.Get("page_size"); sizeStr != "" {
			if size, err := strconv.Atoi(sizeStr); err == nil && size > 0 {
				s.Fetcher.SetPageSize(size)
			}
		}
		pageMoved := false
		if pageStr := q.Get("page"); pageStr != "" {
			if page, err := strconv.Atoi(pageStr); err == nil {
				s.Fetcher.SetPage(page)
				pageMoved = true
			}
		}

		sortField := q.Get("sort")
		if sortField != "" {
			s.Fetcher.ToggleSort(sortField)
		}
		force := q.Get("refresh") == "1"

		var result fetcher.Result
		var err error
		switch {
		case sortField != "" && !force:
			// Sorting re-renders the data already held; it never refetches.
			result, err = s.Fetcher.View(r.Context())
		case pageMoved && !force && s.Fetcher.HoldsAllPages():
			// Every page is already held, so a page move just re-slices.
			result, err = s.Fetcher.View(r.Context())
		default:
			result, err = s.Fetcher.Load(r.Context(), force)
			if errors.Is(err, fetcher.ErrFetchInFlight) {
				// Another request is already fetching; show what we have.
				result, err = s.Fetcher.View(r.Context())
			}
		}
		if err != nil {
			s.renderLoadError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := s.Renderer.Dashboard(w, view.Build(result)); err != nil {
			log.Error("Failed to render dashboard", "error", err)
		}
	}
}

func (s *Server) renderLoadError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, trackstat.ErrUnauthorized):
		http.Redirect(w, r, "/login?expired=1", http.StatusFound)
	case errors.Is(err, fetcher.ErrFetchInFlight):
		s.renderErrorPage(w, http.StatusServiceUnavailable, "A data fetch is already in progress", err)
	case errors.Is(err, fetcher.ErrNoData):
		log.Error("Dashboard load failed with no data", "error", err)
		s.renderErrorPage(w, http.StatusBadGateway, "The stats server is unreachable and no cached data is available", err)
	default:
		log.Error("Dashboard load failed", "error", err)
		s.renderErrorPage(w, http.StatusBadGateway, "Failed to load player stats", err)
	}
}

// renderErrorPage writes the failure as an HTML page carrying the underlying
// error text and a retry link.
func (s *Server) renderErrorPage(w http.ResponseWriter, status int, title string, err error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	page := view.ErrorPage{Status: status, Title: title, Detail: err.Error()}
	if rerr := s.Renderer.Error(w, page); rerr != nil {
		log.Error("Failed to render error page", "error", rerr)
	}
}

// ExportViewHandler streams the entire dataset as CSV, walking every page
// server-side. A partial download (retries exhausted mid-walk) is flagged in
// a trailer-ish header so scripted callers can detect it.
func (s *Server) ExportViewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, partial, err := s.Fetcher.FetchAll(r.Context(), nil)
		if err != nil {
			s.renderLoadError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="players.csv"`)
		if partial {
			w.Header().Set("X-Partial-Data", "true")
		}

		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"player_name", "cash", "gems", "s_pets", "ss_pets", "tickets", "game_passes", "timestamp"})
		for _, rec := range records {
			_ = cw.Write([]string{
				rec.PlayerName,
				strconv.FormatInt(rec.Cash, 10),
				strconv.FormatInt(rec.Gems, 10),
				strconv.Itoa(rec.SPetCount()),
				strconv.Itoa(rec.SSPetCount()),
				strconv.FormatInt(rec.TicketAmount(), 10),
				strconv.Itoa(rec.GamePassCount()),
				rec.Timestamp,
			})
		}
		cw.Flush()
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			message := ""
			if r.URL.Query().Get("expired") == "1" {
				message = "Your session was rejected by the stats server. Enter a new one."
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			if err := s.Renderer.Login(w, message); err != nil {
				log.Error("Failed to render login page", "error", err)
			}
		case http.MethodPost:
			if err := r.ParseForm(); err != nil {
				http.Error(w, "invalid form", http.StatusBadRequest)
				return
			}
			session := strings.TrimSpace(r.FormValue("session"))
			if session == "" {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				_ = s.Renderer.Login(w, "A session value is required.")
				return
			}

			s.Client.SetSessionCookie(session)
			if err := s.Client.Probe(r.Context()); err != nil {
				log.Warn("Session probe failed", "error", err)
				message := "Could not reach the stats server. Try again."
				if errors.Is(err, trackstat.ErrUnauthorized) {
					message = "The stats server rejected that session."
				}
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				_ = s.Renderer.Login(w, message)
				return
			}

			log.Info("Session accepted by stats server")
			http.Redirect(w, r, "/dashboard?refresh=1", http.StatusFound)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) DeletePlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		names := r.Form["player"]
		if len(names) == 0 {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}

		isDryRun := isDryRunFromContext(r)
		report, err := s.Bulk.DeletePlayers(r.Context(), names, isDryRun)
		if err != nil {
			log.Error("Bulk delete aborted", "error", err)
			http.Error(w, "Bulk delete aborted", http.StatusInternalServerError)
			return
		}

		log.Info("Bulk delete handled", "deleted", report.Deleted, "failed", len(report.Failures), "dry_run", isDryRun)
		if isDryRun {
			// Nothing changed upstream; no forced refetch needed.
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		// Refresh regardless of per-item failures: some deletes may have
		// landed and the table must reflect the server.
		http.Redirect(w, r, "/dashboard?refresh=1", http.StatusSeeOther)
	}
}

func (s *Server) ExportAccountsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		usernames := r.Form["username"]
		for _, line := range strings.Split(r.FormValue("usernames"), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				usernames = append(usernames, line)
			}
		}
		if len(usernames) == 0 {
			http.Error(w, "no accounts selected", http.StatusBadRequest)
			return
		}

		report, err := s.Bulk.ExportAccounts(r.Context(), usernames, isDryRunFromContext(r))
		if err != nil {
			log.Error("Account export aborted", "error", err)
			http.Error(w, "Account export aborted", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="accounts.txt"`)
		w.Header().Set("X-Export-Failed", strconv.Itoa(len(report.Failures)))
		for _, line := range report.Lines {
			fmt.Fprintln(w, line)
		}
	}
}

func (s *Server) ImportAccountsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		payload := strings.TrimSpace(r.FormValue("accounts"))
		if payload == "" {
			http.Error(w, "no accounts provided", http.StatusBadRequest)
			return
		}

		report, err := s.Bulk.ImportAccounts(r.Context(), payload, isDryRunFromContext(r))
		if err != nil {
			if errors.Is(err, trackstat.ErrUnauthorized) {
				http.Redirect(w, r, "/login?expired=1", http.StatusFound)
				return
			}
			log.Error("Account import failed", "error", err)
			http.Error(w, "Account import failed", http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(report); err != nil {
			log.Error("Failed to encode import report", "error", err)
		}
	}
}

func hasFilterParams(q map[string][]string) bool {
	for _, name := range filterParamNames {
		if _, ok := q[name]; ok {
			return true
		}
	}
	return false
}

// parseFilters builds the filter bounds from submitted form values. Blank or
// unparseable inputs keep the default for that bound.
func parseFilters(q map[string][]string) state.Filters {
	f := state.NewFilters()

	getInt64 := func(name string, dst *int64) {
		values, ok := q[name]
		if !ok || len(values) == 0 || strings.TrimSpace(values[0]) == "" {
			return
		}
		if v, err := strconv.ParseInt(strings.TrimSpace(values[0]), 10, 64); err == nil {
			*dst = v
		}
	}
	getInt := func(name string, dst *int) {
		values, ok := q[name]
		if !ok || len(values) == 0 || strings.TrimSpace(values[0]) == "" {
			return
		}
		if v, err := strconv.Atoi(strings.TrimSpace(values[0])); err == nil {
			*dst = v
		}
	}

	getInt64("cash_min", &f.CashMin)
	getInt64("cash_max", &f.CashMax)
	getInt64("gems_min", &f.GemsMin)
	getInt64("gems_max", &f.GemsMax)
	getInt64("tickets_min", &f.TicketsMin)
	getInt64("tickets_max", &f.TicketsMax)
	getInt("s_pets_min", &f.SPetsMin)
	getInt("ss_pets_min", &f.SSPetsMin)
	getInt("gamepass_min", &f.GamepassMin)
	getInt("gamepass_max", &f.GamepassMax)
	return f
}
