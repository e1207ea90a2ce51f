// Package server holds the HTTP server configuration.
//
// The main application entry point builds the Fiber app; this package only
// defines the listen port, the API key guarding the routes and the graceful
// shutdown budget shared by the HTTP server and the sync engine.
package server
