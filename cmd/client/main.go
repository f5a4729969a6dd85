package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/yeohaeng/travel-client/auth"
	"github.com/yeohaeng/travel-client/credentials"
	"github.com/yeohaeng/travel-client/gateway"
	"github.com/yeohaeng/travel-client/internal/config"
	"github.com/yeohaeng/travel-client/oauthcallback"
	"github.com/yeohaeng/travel-client/restapi"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error running client: %s\n", err)
	}
	log.Printf("Client stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()
	c := config.New()
	displayAppname(c.GetAppName())

	store, err := credentials.OpenBoltStore(c.GetCredentialFile())
	if err != nil {
		return fmt.Errorf("credentials.OpenBoltStore: %w", err)
	}
	defer store.Close()

	transport := gateway.New(store)
	api := restapi.New(c.GetAPIBaseURL(), transport.Client())

	notifier := terminalNotifier{}
	navigator := terminalNavigator{}
	sessions, err := auth.NewManager(store, api, notifier, navigator, auth.WithSessionTTL(c.GetSessionTTL()))
	if err != nil {
		return fmt.Errorf("auth.NewManager: %w", err)
	}
	transport.SetUnauthorizedHandler(sessions.ForceLogout)

	// Local listener for the browser redirect that ends a social login.
	callbackServer := &http.Server{
		Addr:    c.GetListenAddr(),
		Handler: oauthcallback.Handler(sessions, navigator),
	}
	go listenAndServe(callbackServer)

	done := make(chan struct{})
	go func() {
		runREPL(context.Background(), sessions, api, c)
		close(done)
	}()

	waitForStopSignal(done)
	return shutdown(callbackServer)
}

func listenAndServe(server *http.Server) error {
	log.Printf("Callback listener on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal(done <-chan struct{}) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case <-stop:
	case <-done:
	}
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
