// Package file stores notes as Markdown files on the local file system.
//
// Each note lives at <root>/<YYYY>/<YYYY-MM>/<created>_<slug>_<id>.md with a
// YAML header carrying id, title, created and updated. Writes go through a
// temp file and rename so a crash never leaves a half-written note.
package file
