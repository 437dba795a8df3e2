// Package web serves the browser UI: writing, browsing, editing and
// searching notes, building copilot prompts and ticking off tasks.
//
// Handlers call the driving ports only. Pages are rendered from embedded
// html/template files and status messages travel between a POST and the
// page it redirects to in a short-lived flash cookie.
package web
