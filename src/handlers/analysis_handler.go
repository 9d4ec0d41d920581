package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/username/algotax/backend/src/logger"
	"github.com/username/algotax/backend/src/models"
	"github.com/username/algotax/backend/src/services"
	"github.com/username/algotax/backend/src/utils"
)

type AnalysisHandler struct {
	analysisService services.AnalysisService
	defaultAddress  string
}

func NewAnalysisHandler(analysisService services.AnalysisService, defaultAddress string) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		defaultAddress:  defaultAddress,
	}
}

type analyzeRequest struct {
	Address string `json:"address"`
}

// HandleAnalyze triggers a full analysis run for the requested account (or
// the configured default) and returns the run summary.
func (h *AnalysisHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	address := strings.TrimSpace(req.Address)
	if address == "" {
		address = h.defaultAddress
	}
	if address == "" {
		utils.SendJSONError(w, "no account address provided and no default configured", http.StatusBadRequest)
		return
	}

	logger.L.Info("Handling analyze request", "address", address)

	result, err := h.analysisService.RunAnalysis(r.Context(), address)
	if err != nil {
		if errors.Is(err, services.ErrUnknownAccount) {
			utils.SendJSONError(w, fmt.Sprintf("account not found: %v", err), http.StatusNotFound)
			return
		}
		logger.L.Error("Analysis run failed", "address", address, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("analysis failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L.Error("Error generating JSON response for analysis result", "error", err)
	}
}

// HandleGetReport returns the latest run summary, if one has completed.
func (h *AnalysisHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	result, found := h.analysisService.LatestResult()
	if !found {
		utils.SendJSONError(w, "no analysis run has completed yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L.Error("Error generating JSON response for report", "error", err)
	}
}

// HandleGetTaxableEvents returns all stored taxable events with ETag support.
func (h *AnalysisHandler) HandleGetTaxableEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.analysisService.GetTaxableEvents()
	if err != nil {
		logger.L.Error("Error retrieving taxable events", "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error retrieving taxable events: %v", err), http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []models.TaxableEvent{}
	}

	currentETag, etagErr := utils.GenerateETag(events)
	if etagErr != nil {
		logger.L.Error("Failed to generate ETag for taxable events", "error", etagErr)
	}

	w.Header().Set("Cache-Control", "no-cache, private")

	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		clientETag := r.Header.Get("If-None-Match")
		for _, cETag := range strings.Split(clientETag, ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(events); err != nil {
		logger.L.Error("Error generating JSON response for taxable events", "error", err)
	}
}

// HandleGetTransactions returns the raw transaction log.
func (h *AnalysisHandler) HandleGetTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.analysisService.GetLoggedTransactions()
	if err != nil {
		logger.L.Error("Error retrieving transaction log", "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error retrieving transaction log: %v", err), http.StatusInternalServerError)
		return
	}
	if txs == nil {
		txs = []models.LoggedTransaction{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(txs); err != nil {
		logger.L.Error("Error generating JSON response for transaction log", "error", err)
	}
}
