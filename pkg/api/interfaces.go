// Package api provides interfaces for dependency injection
package api

import "github.com/sirupsen/logrus"

// ServerStarter defines the interface for starting the API server
type ServerStarter interface {
	// StartServer serves the API until the listener fails
	StartServer(store RecordStore, config ServerConfig, logger *logrus.Logger) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	// CreateServerStarter creates a server starter
	CreateServerStarter() ServerStarter
}
