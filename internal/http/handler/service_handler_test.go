package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iyfinance/leads-api/internal/domain"
	"github.com/iyfinance/leads-api/internal/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceHandlerList(t *testing.T) {
	h := handler.NewServiceHandler()

	req := httptest.NewRequest(http.MethodGet, "/services", nil)
	rr := httptest.NewRecorder()

	h.List(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var services []domain.Service
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &services))
	assert.Len(t, services, len(domain.Services))
}

func TestServiceHandlerGetByID(t *testing.T) {
	h := handler.NewServiceHandler()

	t.Run("known service", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/services/judgement", nil)
		req = withURLParam(req, "id", "judgement")
		rr := httptest.NewRecorder()

		h.GetByID(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var svc domain.Service
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &svc))
		assert.Equal(t, "judgement", svc.ID)
	})

	t.Run("unknown service", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/services/timeshare", nil)
		req = withURLParam(req, "id", "timeshare")
		rr := httptest.NewRecorder()

		h.GetByID(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
