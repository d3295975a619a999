package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Subasree2717/agropredictor/internal/inference"
	"github.com/Subasree2717/agropredictor/internal/models"
	"github.com/Subasree2717/agropredictor/internal/service"
	"github.com/Subasree2717/agropredictor/internal/types"
)

// PredictionHandler handles crop and fertilizer recommendation requests
type PredictionHandler struct {
	svc service.IPredictionService
}

func NewPredictionHandler(svc service.IPredictionService) *PredictionHandler {
	return &PredictionHandler{svc: svc}
}

// Predict accepts the raw soil payload. Fields may be numbers or numeric
// strings; validation happens in the inference layer.
func (h *PredictionHandler) Predict(c *gin.Context) {
	var fields map[string]any
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil || fields == nil {
		errorJSON(c, http.StatusBadRequest, "request body must be a JSON object")
		return
	}

	rec, err := h.svc.Predict(c.Request.Context(), fields)
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, statusForInference(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, rec)
}

// History lists stored recommendations
func (h *PredictionHandler) History(c *gin.Context) {
	var filter models.HistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.svc.History(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, "failed to load prediction history")
		return
	}
	c.JSON(http.StatusOK, types.PredictionHistoryResponse{Predictions: list})
}

// statusForInference maps caller mistakes to 400. A feature count mismatch
// on /forecast comes from configuration, not the caller.
func statusForInference(err error) int {
	if errors.Is(err, inference.ErrFeatureCountMismatch) {
		return http.StatusInternalServerError
	}
	if inference.IsInputError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
