// Package auth provides API key middleware for webpulse-server.
//
// APIKeyMiddleware(mode, header, key) validates the key from the named HTTP
// header. When mode != "apikey" or key == "", all requests pass through
// (useful for local development with auth disabled). An incorrect or absent
// key gets 401 immediately.
package auth
