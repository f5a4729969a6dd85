package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/yeohaeng/travel-client/auth"
	"github.com/yeohaeng/travel-client/internal/config"
	"github.com/yeohaeng/travel-client/restapi"
	"golang.org/x/term"
)

// runREPL reads commands from stdin and dispatches against the session
// manager and the REST client until EOF or an exit command.
func runREPL(ctx context.Context, sessions *auth.Manager, api *restapi.Client, c config.Config) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("yh> %s > ", status(sessions))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch cmd := parts[0]; cmd {
		case "help":
			if sessions.User() != nil {
				fmt.Println("Available commands: whoami, stays, logout, exit")
			} else {
				fmt.Println("Available commands: login, signup, kakao, google, exit")
			}

		case "login":
			doLogin(ctx, scanner, sessions)

		case "signup":
			doSignup(ctx, scanner, api)

		case "logout":
			sessions.Logout()

		case "whoami":
			if user := sessions.User(); user != nil {
				fmt.Printf("%s <%s> (member %d)\n", user.Nickname, user.Email, user.MemberID)
			} else {
				fmt.Println("not logged in")
			}

		case "stays":
			doStays(ctx, api)

		case "kakao", "google":
			authURL, err := authorizeURL(c, cmd)
			if err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Printf("Open this URL in a browser to continue:\n%s\n", authURL)

		case "exit", "quit":
			return

		default:
			fmt.Printf("unknown command %q, try help\n", cmd)
		}
	}
}

func status(sessions *auth.Manager) string {
	if user := sessions.User(); user != nil {
		return user.Nickname
	}
	return "guest"
}

func doLogin(ctx context.Context, scanner *bufio.Scanner, sessions *auth.Manager) {
	email := prompt(scanner, "email")
	fmt.Print("password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		fmt.Println("could not read password:", err)
		return
	}

	sessions.SetFormInput(email, string(password))
	// Failures are surfaced by the session manager itself.
	_ = sessions.Login(ctx, email, string(password))
}

func doSignup(ctx context.Context, scanner *bufio.Scanner, api *restapi.Client) {
	email := prompt(scanner, "email")
	if ok, err := api.CheckEmail(ctx, email); err != nil {
		fmt.Println("email check failed:", err)
		return
	} else if !ok {
		fmt.Println("that email is already in use")
		return
	}

	nickname := prompt(scanner, "nickname")
	name := prompt(scanner, "name")
	fmt.Print("password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		fmt.Println("could not read password:", err)
		return
	}

	if err := api.Signup(ctx, restapi.SignupRequest{
		Email:    email,
		Password: string(password),
		Name:     name,
		Nickname: nickname,
	}); err != nil {
		fmt.Println("signup failed:", err)
		return
	}
	if err := api.SendVerificationEmail(ctx, email); err != nil {
		fmt.Println("could not send verification mail:", err)
		return
	}
	fmt.Println("signed up, a verification code was mailed to", email)

	code := prompt(scanner, "verification code")
	if err := api.VerifyEmailCode(ctx, email, code); err != nil {
		fmt.Println("verification failed:", err)
		return
	}
	fmt.Println("email verified, you can log in now")
}

func doStays(ctx context.Context, api *restapi.Client) {
	stays, err := api.ListAccommodations(ctx, 1, 10)
	if err != nil {
		fmt.Println("could not fetch accommodations:", err)
		return
	}
	for _, stay := range stays {
		fmt.Printf("[%d] %s — %s (%d~%d)\n", stay.AccommodationNo, stay.Name, stay.Region, stay.PriceMin, stay.PriceMax)
	}
}

func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Printf("%s: ", label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}
