package actions

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/relloyd/hotelpipe/logger"
	"github.com/relloyd/hotelpipe/report"
	"github.com/relloyd/hotelpipe/store"
)

type WebServerResponse uint32

const (
	Okay WebServerResponse = iota + 1
	Error
)

func (w WebServerResponse) MarshalJSON() ([]byte, error) {
	var retval string
	switch w {
	case Okay:
		retval = "ok"
	case Error:
		retval = "error"
	default:
		return nil, fmt.Errorf("unhandled WebServerResponse value in MarshalJSON() conversion")
	}
	return json.Marshal(retval)
}

type ResponseSimple struct {
	ServerStatus WebServerResponse `json:"status"`
	Message      string            `json:"message,omitempty"`
}

type ResponseMonthly struct {
	Status WebServerResponse       `json:"status"`
	Filter report.Filter           `json:"filter"`
	Months []report.MonthlySummary `json:"months"`
}

type ResponseKPIs struct {
	Status WebServerResponse `json:"status"`
	Filter report.Filter     `json:"filter"`
	KPIs   *report.KPI       `json:"kpis"`
}

type ResponseRuns struct {
	Status WebServerResponse  `json:"status"`
	Runs   []report.RunRecord `json:"runs"`
}

func GetHandlerHealth(log logger.Logger) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(log, w, http.StatusOK, ResponseSimple{ServerStatus: Okay})
	}
}

func GetHandlerStopServer(log logger.Logger, chanStop chan string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case chanStop <- "stop":
			log.Info("Stop signal sent")
		default: // a stop is already pending
		}
		respond(log, w, http.StatusOK, ResponseSimple{ServerStatus: Okay, Message: "shutting down"})
	}
}

func GetHandlerMonthlyBookings(log logger.Logger, sel store.Selector) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := filterFromRequest(r)
		if err != nil {
			respondError(log, w, http.StatusBadRequest, err)
			return
		}
		months, err := report.MonthlyBookings(r.Context(), sel, f)
		if err != nil {
			respondError(log, w, http.StatusInternalServerError, err)
			return
		}
		respond(log, w, http.StatusOK, ResponseMonthly{Status: Okay, Filter: f, Months: months})
	}
}

func GetHandlerKPIs(log logger.Logger, sel store.Selector) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := filterFromRequest(r)
		if err != nil {
			respondError(log, w, http.StatusBadRequest, err)
			return
		}
		k, err := report.KPIs(r.Context(), sel, f)
		if err != nil {
			respondError(log, w, http.StatusInternalServerError, err)
			return
		}
		respond(log, w, http.StatusOK, ResponseKPIs{Status: Okay, Filter: f, KPIs: k})
	}
}

func GetHandlerRuns(log logger.Logger, sel store.Selector, limit int) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		n := limit
		if v := r.URL.Query().Get("limit"); v != "" {
			var err error
			if n, err = strconv.Atoi(v); err != nil || n < 0 {
				respondError(log, w, http.StatusBadRequest, fmt.Errorf("limit must be a non-negative integer, got %q", v))
				return
			}
		}
		runs, err := report.RecentRuns(r.Context(), sel, n)
		if err != nil {
			respondError(log, w, http.StatusInternalServerError, err)
			return
		}
		respond(log, w, http.StatusOK, ResponseRuns{Status: Okay, Runs: runs})
	}
}

// filterFromRequest reads the country, hotel and year query parameters.
func filterFromRequest(r *http.Request) (f report.Filter, err error) {
	q := r.URL.Query()
	f.Country = q.Get("country")
	f.Hotel = q.Get("hotel")
	if y := q.Get("year"); y != "" {
		if f.Year, err = strconv.Atoi(y); err != nil {
			return f, fmt.Errorf("year must be an integer, got %q", y)
		}
	}
	return f, nil
}

func respondError(log logger.Logger, w http.ResponseWriter, code int, err error) {
	log.Error(err)
	respond(log, w, code, ResponseSimple{ServerStatus: Error, Message: err.Error()})
}

// respond writes code and i marshalled as JSON to w.
func respond(log logger.Logger, w http.ResponseWriter, code int, i interface{}) {
	j, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		log.Error(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(j); err != nil {
		log.Error(err)
	}
}
