package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/yeohaeng/travel-client/auth"
)

// terminalNotifier renders blocking alerts as stand-out terminal lines.
type terminalNotifier struct{}

var _ auth.Notifier = terminalNotifier{}

func (terminalNotifier) Alert(message string) {
	fmt.Printf("\n!! %s\n", message)
}

// terminalNavigator stands in for full-page navigation: the terminal client
// has no pages, so route changes are only logged.
type terminalNavigator struct{}

var _ auth.Navigator = terminalNavigator{}

func (terminalNavigator) NavigateTo(route string) {
	log.Info().Str("route", route).Msg("navigation")
}
