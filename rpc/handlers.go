package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"powchain/consensus"
	"powchain/core"
	"powchain/crypto"
	"powchain/metrics"
)

// blockView is the wire shape of a block: digests rendered as hex, payload as
// a string.
type blockView struct {
	Index      uint64 `json:"index"`
	Timestamp  int64  `json:"timestamp"`
	Payload    string `json:"payload"`
	PrevHash   string `json:"prevHash"`
	Difficulty uint32 `json:"difficulty"`
	Nonce      uint64 `json:"nonce"`
	Hash       string `json:"hash"`
}

func toBlockView(b *core.Block) blockView {
	return blockView{
		Index:      b.Index,
		Timestamp:  b.Timestamp,
		Payload:    string(b.Payload),
		PrevHash:   crypto.HashToHex(b.PrevHash),
		Difficulty: b.Difficulty,
		Nonce:      b.Nonce,
		Hash:       crypto.HashToHex(b.Hash),
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	chain := s.node.Chain()
	tail := chain.Tail()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"length":   chain.Len(),
		"height":   tail.Index,
		"tailHash": crypto.HashToHex(tail.Hash),
		"mining":   s.node.IsRunning(),
	})
}

func (s *Server) handleBlockByIndex(w http.ResponseWriter, r *http.Request) {
	indexStr := mux.Vars(r)["index"]
	index, err := strconv.ParseUint(indexStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid block index")
		return
	}
	block := s.node.Chain().BlockAt(index)
	if block == nil {
		writeError(w, http.StatusNotFound, "block not found")
		return
	}
	writeJSON(w, http.StatusOK, toBlockView(block))
}

func (s *Server) handleBlockByHash(w http.ResponseWriter, r *http.Request) {
	hash, err := crypto.HexToHash(mux.Vars(r)["hash"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid block hash")
		return
	}
	block := s.node.Chain().GetBlockByHash(hash)
	if block == nil {
		writeError(w, http.StatusNotFound, "block not found")
		return
	}
	writeJSON(w, http.StatusOK, toBlockView(block))
}

// handleBlockRaw serves the block's canonical JSON form, digests as raw bytes
// rather than the hex view.
func (s *Server) handleBlockRaw(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.ParseUint(mux.Vars(r)["index"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid block index")
		return
	}
	block := s.node.Chain().BlockAt(index)
	if block == nil {
		writeError(w, http.StatusNotFound, "block not found")
		return
	}
	data, err := block.ToJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	report := s.node.Chain().Validate()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":         report.OK(),
		"violations": report.Violations,
	})
}

type appendRequest struct {
	Payload    string  `json:"payload"`
	Difficulty *uint32 `json:"difficulty,omitempty"`
}

func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request) {
	var req appendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	difficulty := s.node.Difficulty()
	if req.Difficulty != nil {
		if *req.Difficulty > consensus.MaxDifficulty {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("difficulty must be at most %d", consensus.MaxDifficulty))
			return
		}
		difficulty = *req.Difficulty
	}

	block, err := s.node.Chain().Append(r.Context(), []byte(req.Payload), difficulty)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrLinkageMismatch):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusCreated, toBlockView(block))
}

func (s *Server) handleMiningStart(w http.ResponseWriter, r *http.Request) {
	s.node.Start()
	writeJSON(w, http.StatusOK, map[string]bool{"mining": true})
}

func (s *Server) handleMiningStop(w http.ResponseWriter, r *http.Request) {
	s.node.Stop()
	writeJSON(w, http.StatusOK, map[string]bool{"mining": false})
}

func (s *Server) handleMiningStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"running":    s.node.IsRunning(),
		"difficulty": s.node.Difficulty(),
		"interval":   s.node.MineInterval().String(),
		"metrics":    metrics.GetMetrics().Snapshot(),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, metrics.GetMetrics().Snapshot())
}
