// Package web provides the embedded browser client for chatcast.
//
// The client is a single page that posts messages to "/message" and renders
// the live "/events" stream. It is embedded at compile time so the binary can
// be deployed on its own; a static_dir in the configuration replaces it.
package web

import "embed"

// Assets is an embedded filesystem containing the chat client.
//
// The filesystem structure is:
//
//	assets/
//	  index.html    - Chat page with inline CSS and JavaScript
//
//go:embed assets/*
var Assets embed.FS
