package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/meridianmq/meridian/internal/cluster"
	"github.com/meridianmq/meridian/internal/discovery"
)

// ClusterHandler handles cluster membership API endpoints
type ClusterHandler struct {
	clusterManager cluster.ClusterManager
}

// NewClusterHandler creates a new instance of ClusterHandler
func NewClusterHandler(cm cluster.ClusterManager) *ClusterHandler {
	return &ClusterHandler{
		clusterManager: cm,
	}
}

// RegisterRoutes registers cluster membership routes
func (h *ClusterHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/cluster/nodes", h.handleListNodes).Methods(http.MethodGet)
	r.HandleFunc("/cluster/nodes", h.handleAddNode).Methods(http.MethodPost)
	r.HandleFunc("/cluster/nodes/{name}", h.handleGetNode).Methods(http.MethodGet)
	r.HandleFunc("/cluster/nodes/{name}", h.handleRemoveNode).Methods(http.MethodDelete)
	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
}

// handleListNodes handles GET /cluster/nodes requests
func (h *ClusterHandler) handleListNodes(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.clusterManager.ListNodes(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(nodes)
}

// handleAddNode handles POST /cluster/nodes requests
func (h *ClusterHandler) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var node cluster.Node
	if err := json.NewDecoder(r.Body).Decode(&node); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.clusterManager.JoinNode(r.Context(), node); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// handleGetNode handles GET /cluster/nodes/{name} requests
func (h *ClusterHandler) handleGetNode(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := discovery.NodeName(vars["name"])

	node, err := h.clusterManager.GetNode(r.Context(), name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(node)
}

// handleRemoveNode handles DELETE /cluster/nodes/{name} requests
func (h *ClusterHandler) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := discovery.NodeName(vars["name"])

	if err := h.clusterManager.LeaveNode(r.Context(), name); err != nil {
		if errors.Is(err, cluster.ErrNodeNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleHealth handles GET /health requests
func (h *ClusterHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
