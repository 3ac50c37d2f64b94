// Package service implements the provider registry that routes tool
// invocations to the terminal and filesystem providers. Tool IDs are
// namespaced by service, e.g. "terminal.spawn" routes to the provider
// registered under "terminal".
package service
