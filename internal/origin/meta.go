// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package origin

import (
	"net"
	"net/http"
)

// RequestMetaFrom extracts the audit context from an HTTP request. The
// remote address is expected to have been rewritten by the RealIP
// middleware before this runs.
func RequestMetaFrom(r *http.Request) RequestMeta {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}

	return RequestMeta{
		ClientIP:  ip,
		UserAgent: r.UserAgent(),
		Path:      r.URL.Path,
		Method:    r.Method,
	}
}
