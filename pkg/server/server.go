// Package server exposes the resolver over HTTP.
package server

import (
	"github.com/rs/zerolog"

	"github.com/Veraticus/dateformat/pkg/monitor"
	"github.com/Veraticus/dateformat/pkg/types"
)

// RuleResolver is the resolver surface the handlers use.
type RuleResolver interface {
	monitor.Resolver
	Rules() []types.Rule
	Append(rule types.Rule) int
}

// App holds the handler dependencies.
type App struct {
	Resolver RuleResolver
	Log      zerolog.Logger
}

// NewApp creates a new server application
func NewApp(resolver RuleResolver, log zerolog.Logger) *App {
	return &App{
		Resolver: resolver,
		Log:      log,
	}
}
