// Package api serves the pass metadata table over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/orbital-data/passmeta/internal/db"
)

type Server struct {
	db *db.DB
}

func NewServer(db *db.DB) *Server {
	return &Server{db: db}
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Welcome to the Pass Metadata Server!"))
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.homeHandler)
	mux.HandleFunc("/passes", s.listPasses)
	mux.HandleFunc("/quality", s.qualitySummary)
	mux.HandleFunc("/charts/quality", s.qualityChart)
	return mux
}

func (s *Server) listPasses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	recs, err := s.db.ListPasses(r.URL.Query().Get("platform"))
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve passes: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(recs); err != nil {
		http.Error(w, "Failed to encode passes", http.StatusInternalServerError)
	}
}

func (s *Server) qualitySummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	counts, err := s.db.QualitySummary()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve quality summary: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(counts); err != nil {
		http.Error(w, "Failed to encode summary", http.StatusInternalServerError)
	}
}

func (s *Server) qualityChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	counts, err := s.db.QualitySummary()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve quality summary: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := RenderQualityReport(w, counts); err != nil {
		http.Error(w, fmt.Sprintf("render error: %v", err), http.StatusInternalServerError)
	}
}
