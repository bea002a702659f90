package app

import (
	"github.com/rs/zerolog"

	"github.com/chameleon-sec/chameleon/pkg/config"
	"github.com/chameleon-sec/chameleon/pkg/server/api"
	"github.com/chameleon-sec/chameleon/pkg/storage"
)

// Deps holds dependencies for the server application.
// This pattern enables dependency injection and easier testing.
type Deps struct {
	// Storage backend for the playbook catalog and engagement log.
	Storage storage.Backend

	// Analyzer runs triage analyses. Defaults to the wired analysis
	// service when nil.
	Analyzer api.Analyzer

	// Dispatcher executes allow-listed command batches. Defaults to a
	// dispatcher built from configuration when nil.
	Dispatcher api.Dispatcher

	// Config manager for runtime configuration
	Config *config.Manager

	// Logger for structured logging (injected by caller)
	Logger zerolog.Logger
}
