// Package server exposes module views over HTTP.
//
// Each view is one [interact.Controller] keyed by a random UUID. Clients
// create a view, send it pan, zoom, expansion and drag operations, and read
// back the resulting frame as JSON or a rendered snapshot:
//
//	POST   /views                      create a view, returns {id, frame}
//	GET    /views/{id}/frame           current frame
//	POST   /views/{id}/pan             {"dx": 10, "dy": -4}
//	POST   /views/{id}/zoom            {"x": 640, "y": 400, "factor": 1.1}
//	POST   /views/{id}/reset           {"layout": true} also resets positions
//	POST   /views/{id}/toggle          {"path": "Rover/MainBoard"}
//	POST   /views/{id}/drag/begin      {"path": "...", "x": .., "y": ..}
//	POST   /views/{id}/drag/update     {"x": .., "y": ..}
//	POST   /views/{id}/drag/end
//	POST   /views/{id}/drag/cancel
//	GET    /views/{id}/render.{format} svg, dot, png or json snapshot
//	DELETE /views/{id}
//
// Operations on one view are serialised by a per-view mutex; distinct views
// proceed in parallel. Views idle for longer than the configured TTL are
// swept, and creating a view beyond the limit evicts the least recently
// used one.
package server
