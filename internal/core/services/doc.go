// Package services implements the driving port interfaces.
//
// Services hold the note, search, task and copilot logic and reach the
// file system only through driven ports. The IndexService owns the one
// published search index; every mutating service rebuilds it before
// returning so a saved note is searchable immediately.
package services
