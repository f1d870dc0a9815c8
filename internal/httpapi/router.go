package httpapi

import "net/http"

// NewMux returns the raw mux so main() can still attach extra routes.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Leads
	lh := LeadsHandler{DB: d.DB, Hub: d.Hub}
	mux.HandleFunc("/leads", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  lh.List,
		http.MethodPost: lh.Create,
	}))
	mux.HandleFunc("/leads/stats", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: lh.Stats,
	}))
	mux.HandleFunc("/leads/filters", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: lh.Filters,
	}))
	mux.HandleFunc("/leads/export.csv", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: lh.ExportCSV,
	}))
	// /leads/{id} and /leads/{id}/status dispatch on method internally
	mux.HandleFunc("/leads/", lh.ByPath)

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
		Hub:         d.Hub,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Secrets
	sh := SecretsHandler{}
	mux.HandleFunc("/api/secrets/openai", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetOpenAIKey,
	}))
	mux.HandleFunc("/api/secrets/rapidapi", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetRapidAPIKey,
	}))

	// Poll
	ph := PollHandler{
		DB:         d.DB,
		CfgVal:     d.CfgVal,
		PollStatus: d.PollStatus,
		Hub:        d.Hub,
		RunCycle:   d.RunCycle,
	}
	mux.HandleFunc("/poll/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ph.Status,
	}))
	mux.HandleFunc("/poll/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ph.Run,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// Health
	hh := HealthHandler{}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	return mux
}
