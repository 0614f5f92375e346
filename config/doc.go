// Package config holds the validated configuration of a heartbeat hub.
//
// Raw input arrives as Values, either compiled in or decoded by the provision
// package, and New turns it into an immutable Store. New reports every problem
// it finds at once through a *ValidationError; a Store is never returned
// partially valid. A Store has no setters and may be shared freely between
// goroutines.
//
// Secret fields are wrapped in Secret, which redacts itself in every default
// formatting and marshalling path. Call Reveal only where the raw value is
// handed to the collaborator that needs it.
package config
