/*
Package http serves a lexicon over a small JSON API.

	POST /trace     {"input": "cat<N><Pl>", "output": "cats", "format": "mermaid"}
	GET  /graph     ?format=mermaid|dot
	GET  /validate
	GET  /healthz
	GET  /info
	GET  /metrics   (when a gatherer is configured)

Every response carries an X-Request-ID header.
*/
package http
