package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/auctionhouse/pkg/auth"
	"github.com/ghuser/auctionhouse/pkg/httpx"
)

const dateLayout = "2006-01-02"

// pathUUID parses the chi URL parameter name as a UUID, writing 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}

// sessionUser returns the authenticated user, writing 401 when there is none.
func sessionUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := auth.UserIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

// parseTime accepts RFC 3339 timestamps or plain dates. A plain date used as
// the end of a range covers the whole day.
func parseTime(name, v string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	d, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be YYYY-MM-DD or RFC 3339", name)
	}
	if endOfDay {
		d = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return d, nil
}

// dateRange reads the required startDate and endDate query parameters.
func dateRange(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	rawStart, rawEnd := q.Get("startDate"), q.Get("endDate")
	if rawStart == "" || rawEnd == "" {
		return time.Time{}, time.Time{}, errors.New("startDate and endDate are required")
	}
	start, err := parseTime("startDate", rawStart, false)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseTime("endDate", rawEnd, true)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func optionalTime(r *http.Request, name string, endOfDay bool) (*time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	t, err := parseTime(name, v, endOfDay)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func optionalDecimal(r *http.Request, name string) (*decimal.Decimal, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, fmt.Errorf("%s must be a decimal number", name)
	}
	return &d, nil
}
