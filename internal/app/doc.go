// Package app is the composition root for postboard.
//
// Run wires the pieces together in this order:
//
//	config.Load()          dotenv, TOML file, environment overrides
//	openLog()              standard logger -> log file
//	jar.Open()             SQLite cookie jar, expired rows purged
//	session.Load()         token from the "access" cookie
//	api.NewClient()        posts backend
//	imgbb.NewClient()      only when an image key is configured
//	ui.NewProgram()        Bubble Tea program
//	StartWatcher()         polls the jar, sends ui.SessionChangedMsg
//	program.Run()          blocks until quit
//
// Configuration and jar failures are fatal. Everything after the UI starts
// is scoped to the screen that triggered it and only logged here.
//
// The watcher only moves the navbar indicator. Route guards read the
// in-memory session, which changes on login, logout and an explicit reload.
package app
