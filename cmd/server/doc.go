// Package main is the entry point for the fundsift HTTP server.
//
// The server exposes the extraction pipeline over a small JSON API:
//
//	POST /api/extract     extract a fund page (by URL or inline HTML)
//	GET  /api/funds       list stored fund slugs
//	GET  /api/funds/:slug read a stored record
//	POST /api/batch       submit a multi-URL scrape job
//	GET  /api/batch/:id   poll a job's summary
//	GET  /health          liveness probe
//	GET  /metrics         prometheus metrics
//
// Configuration comes from the environment (see internal/config), with
// -port and -store flags as overrides:
//
//	./server -port 8000 -store scraped_data
package main
