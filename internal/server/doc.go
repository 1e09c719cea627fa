// Package server serves the tool catalog, tool runs and run history as a
// JSON API over net/http.
//
// Routes:
//
//	GET  /healthz
//	GET  /api/tools
//	GET  /api/tools/{name}
//	POST /api/tools/{name}/run   JSON {"fields":{...},"image":{"mimeType":"...","data":"..."}} or multipart with an "image" file
//	GET  /api/history?tool=&limit=
//	GET  /api/history/{id}
package server
