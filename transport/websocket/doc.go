// Package websocket pushes round events to browsers and other live views.
//
// A single Hub fans every service event out to all connected clients. There
// is only ever one active round, so clients do not subscribe to anything in
// particular. Each message is one JSON object per frame:
//
//	{"event": "state", "round_id": "...", "data": {...service.Event...}}
//
// Event names are state, tick, notification and round_ended. A client may
// be greeted with a snapshot of the current round when it connects.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//	cancel := gameService.Subscribe(hub.Publish)
//	defer cancel()
//
// Publishing never blocks the game. Clients whose send buffer fills up are
// disconnected, and broadcasts are dropped when the hub itself falls behind.
package websocket
