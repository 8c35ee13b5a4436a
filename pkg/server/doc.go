// Package server hosts grain applications over HTTP and websocket.
//
// The HTTP side serves a server-rendered page shell and the client script;
// the websocket side runs one Session per connection, each with its own
// document, reactive scope and patch stream.
package server
