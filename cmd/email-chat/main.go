// Email chat agent: a conversational front-end over Gmail and Google Calendar.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/gmail/v1"

	"github.com/sakethbandi007/email-chat-agent/internal/agent"
	"github.com/sakethbandi007/email-chat-agent/internal/auth"
	"github.com/sakethbandi007/email-chat-agent/internal/chat"
	"github.com/sakethbandi007/email-chat-agent/internal/format"
	"github.com/sakethbandi007/email-chat-agent/internal/gservice"
	"github.com/sakethbandi007/email-chat-agent/internal/llm"
)

func main() {
	httpAddr := flag.String("http-addr", "localhost:0", "OAuth callback server listen addr")
	oauthTokenFile := flag.String("oauth-token-file", "./data/email-chat-token.json", "Path to cache google oauth token, empty to avoid storing")
	oauthURLParam := flag.String("oauth-url", "", "OAuth callback URL override")
	envFileParam := flag.String("env-file", "", "Path to env file")
	modelParam := flag.String("model", "", "OpenAI model (default gpt-4o)")
	demoMode := flag.Bool("demo", false, "Use canned demo emails and events instead of Google APIs")
	logFile := flag.String("log-file", "", "Path to log file (default: discard, keeps the chat readable)")

	flag.Parse()

	persistLogs := setupLogger(logFile)
	defer persistLogs()

	loadEnvFile(envFileParam)

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "Env variable OPENAI_API_KEY must be set")
		os.Exit(1)
	}
	llmClient := llm.NewClient(apiKey, *modelParam)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGTERM, syscall.SIGINT)

	mail, cal, stopHTTP := buildBackends(*demoMode, httpAddr, oauthTokenFile, oauthURLParam)
	defer stopHTTP()

	dsp := agent.NewDispatcher(mail, cal, llmClient)
	loop := chat.NewLoop(llmClient, dsp, os.Stdin, os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		<-shutdown
		log.Println("Shutdown signal received")
		cancel()
	}()

	if err := loop.Run(ctx); err != nil {
		log.Println(fmt.Errorf("loop.Run failed: %w", err))
	}
}

// buildBackends wires either the demo mailbox and calendar or the real
// Google-backed ones. The returned stop func shuts down the OAuth callback
// server and persists the token, a no-op in demo mode.
func buildBackends(demo bool, httpAddr, oauthTokenFile, oauthURLParam *string) (agent.Mailbox, agent.Calendar, func()) {
	if demo {
		log.Println("Demo mode: using canned emails and events")

		return agent.NewDemoMailbox(), agent.DemoCalendar{}, func() {}
	}

	ln := mustListen(httpAddr)
	config := mustCreateOauthCfg(ln.Addr().String(), oauthURLParam)

	if oauthTokenFile == nil {
		panic("-oauth-token-file must be provided")
	}
	tok, err := auth.NewToken(config, *oauthTokenFile)
	if err != nil {
		panic(fmt.Errorf("auth.NewToken failed: %w", err))
	}

	mux := http.NewServeMux()
	auth.NewHTTPHandler(tok).RegisterRoutes(mux)

	srv := &http.Server{
		Handler: mux,
	}

	stopHTTP, errHTTPCh := serveHTTP(srv, ln)
	go func() {
		if err, ok := <-errHTTPCh; ok && err != nil {
			log.Println("Error http server", err)
		}
	}()

	if _, err := tok.OAuthToken(); errors.Is(err, auth.ErrTokenNotSet) {
		openBrowser(fmt.Sprintf("http://%s/oauth", ln.Addr().String()))
	}

	mail := gservice.NewGMail(config, tok, &format.Converter{})
	cal := gservice.NewGCalendar(config, tok)

	stop := func() {
		log.Println("Persisting token if exists")
		if err := tok.Persist(); err != nil {
			log.Println(fmt.Errorf("tok.Persist failed: %w", err))
		}

		stopHTTP()
	}

	return mail, cal, stop
}

func serveHTTP(srv *http.Server, ln net.Listener) (func(), <-chan error) {
	errHTTPCh := make(chan error, 1)
	go func() {
		defer close(errHTTPCh)

		log.Println("Starting OAuth callback server on", ln.Addr().String())

		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("srv.Serve failed: %w", err)
			log.Println(err)
			errHTTPCh <- err
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Println(fmt.Errorf("srv.Shutdown failed: %w", err))
		}

		<-errHTTPCh
		log.Println("OAuth callback server stopped")
	}, errHTTPCh
}

func mustListen(httpAddr *string) net.Listener {
	if httpAddr == nil {
		panic("-http-addr must be provided")
	}

	ln, err := net.Listen("tcp", *httpAddr)
	if err != nil {
		panic(fmt.Errorf("net.Listen failed: %w", err))
	}

	return ln
}

func loadEnvFile(envFileParam *string) {
	if envFileParam == nil || *envFileParam == "" {
		return
	}

	if err := godotenv.Load(*envFileParam); err != nil {
		panic(fmt.Errorf("godotenv.Load failed: %w", err))
	}
}

func mustCreateOauthCfg(lnAddr string, oauthURLParam *string) *oauth2.Config {
	oauthClientID := os.Getenv("OAUTH_GOOGLE_CLIENT_ID")
	oauthClientSec := os.Getenv("OAUTH_GOOGLE_CLIENT_SECRET")

	if oauthClientID == "" || oauthClientSec == "" {
		panic("Env variables OAUTH_GOOGLE_CLIENT_ID and OAUTH_GOOGLE_CLIENT_SECRET must be set (or run with -demo)")
	}

	oauthURL := fmt.Sprintf("http://%s/oauth/callback", lnAddr)
	if oauthURLParam != nil && *oauthURLParam != "" {
		oauthURL = *oauthURLParam
	}

	return &oauth2.Config{
		ClientID:     oauthClientID,
		ClientSecret: oauthClientSec,
		RedirectURL:  oauthURL,
		Scopes: []string{
			gmail.GmailReadonlyScope,
			gmail.GmailSendScope,
			calendar.CalendarReadonlyScope,
		},
		Endpoint: google.Endpoint,
	}
}

// setupLogger routes the std logger away from stdout so log lines never
// interleave with the conversation.
func setupLogger(logFile *string) func() {
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			panic(fmt.Errorf("failed to open log file: %w", err))
		}
		log.SetOutput(f)

		return func() {
			if err := f.Close(); err != nil {
				log.Println(fmt.Errorf("f.Close failed: %w", err))
			}
		}
	}

	log.SetOutput(os.Stderr)

	return func() {}
}

func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = fmt.Errorf("unsupported platform")
	}

	if err != nil {
		log.Printf("Could not open browser automatically: %v; please copy and open link in the browser: %s\n", err, url)
	}
}
