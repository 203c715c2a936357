// Package server holds the HTTP server configuration.
//
// The start command owns the fiber application lifecycle; this package only describes how the
// application is exposed: listen port, API key, timeouts and the request body limit.
//
// # Usage
//
//	app := fiber.New(cfg.Server.FiberConfig())
//	app.Listen(cfg.Server.Address())
package server
