// Package ws implements the WebSocket hub for webpulse-server.
//
// Hub manages a set of connected clients and broadcasts the current traffic
// payload to all of them on a configurable interval (default 5s in
// production).
//
// New(data, metrics, interval) creates a Hub.
// Hub.Run(ctx) starts the broadcast ticker — blocks until ctx is cancelled,
// then closes all active connections.
// Hub.ServeHTTP upgrades an HTTP connection to WebSocket, sends the current
// payload immediately on connect, then streams updates on each tick.
//
// Message format sent to clients:
//
//	{
//	  "event": "traffic",
//	  "at":    "2026-08-25T12:00:00Z",
//	  "data":  { /* same schema as GET /api/v1/traffic */ }
//	}
//
// The upgrader accepts all origins. Apply CORS restrictions at the reverse
// proxy level. WebSocket endpoint is mounted at /ws/stream by the server.
package ws
