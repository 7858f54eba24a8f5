package cmd

import "github.com/vertexkv/vertexkv/pkg/di"

// container holds the dependency injection container main.go wires up
// before calling Execute. Commands that need to start the REST server
// (serve, up) read it through GetServerFactory.
var container *di.Container

// SetContainer injects the dependency container. Called once from
// main.go before Execute, and by tests that need to provide a
// substitute ServerFactory.
func SetContainer(c *di.Container) {
	container = c
}
