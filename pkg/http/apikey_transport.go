package http

import "net/http"

// apiKeyTransport appends the API key as a query parameter, the scheme
// used by the Google Sheets and Gemini REST APIs.
type apiKeyTransport struct {
	key       string
	transport http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())

	if t.key != "" {
		q := reqCopy.URL.Query()
		q.Set("key", t.key)
		reqCopy.URL.RawQuery = q.Encode()
	}

	return t.transport.RoundTrip(reqCopy)
}

// WithAPIKey adds a key=... query parameter to every outgoing request.
func WithAPIKey(key string) Option {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &apiKeyTransport{
			key:       key,
			transport: rt,
		}
	})
}
