package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	dealerrors "vendorhub/contexts/vendor-marketplace/deal-service/domain/errors"
	dealhttp "vendorhub/contexts/vendor-marketplace/deal-service/transport/http"
)

func (s *Server) handleListVendors(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireSubject(w, r); !ok {
		return
	}
	query := r.URL.Query()
	req := dealhttp.ListVendorsRequest{
		Category: query.Get("category"),
		Cursor:   query.Get("cursor"),
	}
	if limitRaw := query.Get("limit"); limitRaw != "" {
		limit, err := strconv.Atoi(limitRaw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		req.Limit = limit
	}

	resp, err := s.vendors.Handler.ListVendorsHandler(r.Context(), req)
	if err != nil {
		writeVendorDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetVendor(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireSubject(w, r); !ok {
		return
	}
	resp, err := s.vendors.Handler.GetVendorHandler(r.Context(), r.PathValue("vendor_id"))
	if err != nil {
		writeVendorDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateVendor(w http.ResponseWriter, r *http.Request) {
	actorID, ok := s.requireSubject(w, r)
	if !ok || !requireRequestID(w, r) || !s.allowAdmin(w, r, actorID) {
		return
	}

	var req dealhttp.UpdateVendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.vendors.Handler.UpdateVendorHandler(r.Context(), actorID, r.PathValue("vendor_id"), req)
	if err != nil {
		writeVendorDomainError(w, err)
		return
	}
	if resp.DealClosed && req.Fields["deal_closed"] == true {
		s.metrics.DealClosed()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCloseDeal(w http.ResponseWriter, r *http.Request) {
	actorID, ok := s.requireSubject(w, r)
	if !ok || !requireRequestID(w, r) || !s.allowAdmin(w, r, actorID) {
		return
	}

	var req dealhttp.CloseDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.vendors.Handler.CloseDealHandler(r.Context(), actorID, r.PathValue("vendor_id"), req)
	if err != nil {
		writeVendorDomainError(w, err)
		return
	}
	s.metrics.DealClosed()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.vendors.Handler.CatalogHandler())
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.vendors.Handler.TranslateHandler(r.PathValue("key")))
}

func writeVendorDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dealerrors.ErrInvalidDealValue):
		writeError(w, http.StatusUnprocessableEntity, "invalid_deal_value", err.Error())
	case errors.Is(err, dealerrors.ErrInvalidVendorID),
		errors.Is(err, dealerrors.ErrInvalidField),
		errors.Is(err, dealerrors.ErrEmptyUpdate),
		errors.Is(err, dealerrors.ErrInvalidListFilter),
		errors.Is(err, dealerrors.ErrUnknownCategory):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, dealerrors.ErrVendorNotFound):
		writeError(w, http.StatusNotFound, "vendor_not_found", err.Error())
	case errors.Is(err, dealerrors.ErrVersionConflict):
		writeError(w, http.StatusConflict, "version_conflict", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
