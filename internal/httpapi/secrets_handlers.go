package httpapi

import (
	"encoding/json"
	"net/http"

	"leadminer-engine/internal/secrets"
)

type SecretsHandler struct{}

type setAPIKeyReq struct {
	Key string `json:"key"`
}

func (h SecretsHandler) setKey(account string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setAPIKeyReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := secrets.SetAPIKey(account, req.Key); err != nil {
			http.Error(w, "failed to store key: "+err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h SecretsHandler) SetOpenAIKey(w http.ResponseWriter, r *http.Request) {
	h.setKey(secrets.AccountOpenAI)(w, r)
}

func (h SecretsHandler) SetRapidAPIKey(w http.ResponseWriter, r *http.Request) {
	h.setKey(secrets.AccountRapidAPI)(w, r)
}
