// Package di provides dependency injection container
package di

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/ssargent/marc21/pkg/api"     //nolint:depguard
	"github.com/ssargent/marc21/pkg/storage" //nolint:depguard
)

// StoreOpener opens the record store living in dataDir
type StoreOpener func(dataDir string) (*storage.RecordStore, error)

// Container holds all the dependencies for the application
type Container struct {
	serverFactory api.ServerFactory
	storeOpener   StoreOpener
	logger        *logrus.Logger
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	logger := logrus.New()
	logger.Out = os.Stderr
	return &Container{
		serverFactory: api.NewServerFactory(),
		storeOpener:   storage.Open,
		logger:        logger,
	}
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}

// OpenStore opens the record store in dataDir
func (c *Container) OpenStore(dataDir string) (*storage.RecordStore, error) {
	return c.storeOpener(dataDir)
}

// SetStoreOpener allows overriding how stores are opened (for testing)
func (c *Container) SetStoreOpener(opener StoreOpener) {
	c.storeOpener = opener
}

// Logger returns the shared logger
func (c *Container) Logger() *logrus.Logger {
	return c.logger
}

// SetLogger replaces the shared logger, typically once configuration is loaded
func (c *Container) SetLogger(logger *logrus.Logger) {
	c.logger = logger
}
