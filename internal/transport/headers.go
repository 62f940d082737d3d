package transport

import "net/http"

const (
	// HeaderSkipBrowserWarning suppresses the interstitial page of the
	// tunnelling proxy used in production.
	HeaderSkipBrowserWarning = "ngrok-skip-browser-warning"
	HeaderUserAgent          = "User-Agent"
	HeaderAuthorization      = "Authorization"
	HeaderRequestID          = "X-Request-Id"

	DefaultUserAgent = "VolunteerDashboard-Electron"
)

// DefaultHeaders are injected by the router on every call.
func DefaultHeaders() map[string]string {
	return map[string]string{HeaderSkipBrowserWarning: "true"}
}

// ProxyDefaultHeaders are merged by the privileged proxy before forwarding.
func ProxyDefaultHeaders(userAgent string) map[string]string {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return map[string]string{
		HeaderSkipBrowserWarning: "true",
		HeaderUserAgent:          userAgent,
	}
}

// MergeHeaders applies defaults first and overrides second. Keys are
// canonicalised so a caller value wins regardless of spelling.
func MergeHeaders(defaults, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(defaults)+len(overrides))
	for k, v := range defaults {
		out[http.CanonicalHeaderKey(k)] = v
	}
	for k, v := range overrides {
		out[http.CanonicalHeaderKey(k)] = v
	}
	return out
}

// Bearer formats an Authorization header value.
func Bearer(token string) string {
	return "Bearer " + token
}
