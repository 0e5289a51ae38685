// Package http provides HTTP server and handler implementations.
//
// This file turns the dashboard control values carried in query strings
// into selections understood by the dashboard service.

package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"autosales/internal/core"
)

// Query parameter names shared by the page form and the API.
const (
	paramReport = "report"
	paramYear   = "year"
)

// ParseSelection reads report and year from query values.
//
// An empty report means the default (Yearly); any other unrecognised value
// becomes core.UnknownReport, which renders the placeholder. A missing or
// non-numeric year is absent.
func ParseSelection(query url.Values) core.Selection {
	return core.Selection{
		Report: parseReport(query),
		Year:   parseYear(query),
	}
}

// ParseIndexSelection is ParseSelection with the page defaults: the
// earliest year is preselected when none is given.
func ParseIndexSelection(query url.Values, defaultYear int) core.Selection {
	sel := ParseSelection(query)
	if strings.TrimSpace(query.Get(paramYear)) == "" {
		sel.Year = defaultYear
	}
	return sel
}

func parseReport(query url.Values) core.ReportMode {
	raw := sanitizeInput(query.Get(paramReport))
	if raw == "" {
		return core.Yearly
	}
	mode, _ := core.ParseReportMode(raw)
	return mode
}

func parseYear(query url.Values) int {
	v := strings.TrimSpace(query.Get(paramYear))
	if v == "" {
		return core.NoYear
	}
	y, err := strconv.Atoi(v)
	if err != nil || y < 0 {
		return core.NoYear
	}
	return y
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequireGET accepts GET and HEAD.
func RequireGET(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodGet, http.MethodHead)
}
