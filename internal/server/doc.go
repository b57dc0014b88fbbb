// Package server assembles the pagekit HTTP server from a loaded
// configuration: route table, page registry, asset resolver, the Inertia
// renderer and the metrics and tracing middleware.
package server
