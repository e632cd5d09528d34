// Package httpinterface exposes the read-only view of the canonical store.
// Reads never need coordination: every response is built from one consistent
// snapshot.
package httpinterface

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/keysafe-network/keysafe-daemon/internal/core/application"
	"github.com/keysafe-network/keysafe-daemon/internal/core/domain"
	"github.com/keysafe-network/keysafe-daemon/internal/core/ports"
)

type StoreReadService interface {
	Handler() http.Handler
}

type storeRead struct {
	repoManager ports.RepoManager
	accountSvc  application.AccountService
}

// NewStoreReadService returns the handler tree of the read API.
func NewStoreReadService(
	repoManager ports.RepoManager, accountSvc application.AccountService,
) StoreReadService {
	return &storeRead{repoManager: repoManager, accountSvc: accountSvc}
}

func (s *storeRead) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/snapshot", s.snapshotHandler)
	mux.HandleFunc("/v1/wallets", s.walletsHandler)
	mux.HandleFunc("/v1/accounts", s.accountsHandler)
	mux.HandleFunc("/v1/accounts/", s.accountHandler)
	mux.HandleFunc("/v1/transactions", s.transactionsHandler)
	mux.HandleFunc("/v1/network", s.networkHandler)
	mux.HandleFunc("/v1/status", s.statusHandler)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *storeRead) snapshot() domain.Snapshot {
	return s.repoManager.SnapshotRepository().Snapshot()
}

func (s *storeRead) snapshotHandler(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, s.snapshot())
}

func (s *storeRead) walletsHandler(w http.ResponseWriter, req *http.Request) {
	snapshot := s.snapshot()
	writeJSON(w, map[string]interface{}{
		"wallets":        snapshot.Wallets,
		"activeWalletId": snapshot.ActiveWallet,
	})
}

// accountsHandler returns the accounts of the active wallet with
// ?active=true, all accounts otherwise.
func (s *storeRead) accountsHandler(w http.ResponseWriter, req *http.Request) {
	snapshot := s.snapshot()
	accounts := snapshot.Accounts
	if req.URL.Query().Get("active") == "true" {
		active := make([]domain.Account, 0, len(accounts))
		for _, account := range accounts {
			if snapshot.ActiveWallet.Selects(account) {
				active = append(active, account)
			}
		}
		accounts = active
	}
	writeJSON(w, map[string]interface{}{"accounts": accounts})
}

func (s *storeRead) accountHandler(w http.ResponseWriter, req *http.Request) {
	address := strings.TrimPrefix(req.URL.Path, "/v1/accounts/")
	if address == "" {
		http.NotFound(w, req)
		return
	}

	account, err := s.repoManager.AccountRepository().GetAccount(
		req.Context(), address,
	)
	if err != nil {
		if err == domain.ErrAccountNotExist {
			http.NotFound(w, req)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, account)
}

func (s *storeRead) transactionsHandler(
	w http.ResponseWriter, req *http.Request,
) {
	writeJSON(w, map[string]interface{}{
		"transactions": s.snapshot().Transactions,
	})
}

func (s *storeRead) networkHandler(w http.ResponseWriter, req *http.Request) {
	status := s.snapshot().Network
	writeJSON(w, map[string]interface{}{
		"consensus":      status.Consensus.String(),
		"height":         status.Height,
		"peerCount":      status.PeerCount,
		"globalHashrate": status.GlobalHashrate,
	})
}

func (s *storeRead) statusHandler(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, map[string]interface{}{
		"load": s.accountSvc.LoadState().String(),
	})
}

func writeJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("failed to write response")
	}
}
