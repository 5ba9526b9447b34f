package rpc

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"powchain/logger"
	"powchain/node"
)

// Config holds the HTTP API listen address.
type Config struct {
	Host string
	Port int
}

// Server exposes the node's chain over a REST API: chain inspection and
// validation, one-shot appends, and mining control. There is no peer-to-peer
// surface; the API is the only external boundary of the node.
type Server struct {
	config *Config
	node   *node.Node
	router *mux.Router
	server *http.Server
}

func NewServer(config *Config, n *node.Node) *Server {
	s := &Server{
		config: config,
		node:   n,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	chain := api.PathPrefix("/chain").Subrouter()
	chain.HandleFunc("/status", s.handleStatus).Methods("GET")
	chain.HandleFunc("/blocks/{index:[0-9]+}", s.handleBlockByIndex).Methods("GET")
	chain.HandleFunc("/blocks/{index:[0-9]+}/raw", s.handleBlockRaw).Methods("GET")
	chain.HandleFunc("/blocks/hash/{hash}", s.handleBlockByHash).Methods("GET")
	chain.HandleFunc("/validate", s.handleValidate).Methods("GET")
	chain.HandleFunc("/append", s.handleAppend).Methods("POST")

	mining := api.PathPrefix("/mining").Subrouter()
	mining.HandleFunc("/start", s.handleMiningStart).Methods("POST")
	mining.HandleFunc("/stop", s.handleMiningStop).Methods("POST")
	mining.HandleFunc("/stats", s.handleMiningStats).Methods("GET")

	api.HandleFunc("/metrics", s.handleMetrics).Methods("GET")

	return router
}

// Handler returns the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("HTTP API server error: %v", err)
		}
	}()

	logger.Infof("HTTP API started on %s", addr)
	return nil
}

func (s *Server) Stop() {
	if s.server != nil {
		s.server.Close()
		logger.Info("HTTP API stopped")
	}
}
