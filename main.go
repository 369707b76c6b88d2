package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fabfab/doc-chat/api"
	"github.com/fabfab/doc-chat/chat"
	"github.com/fabfab/doc-chat/config"
	"github.com/fabfab/doc-chat/docsource"
	"github.com/fabfab/doc-chat/llm"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg := config.Load()

	switch os.Args[1] {
	case "serve":
		serveCmd(cfg, logger, os.Args[2:])
	case "chat":
		chatCmd(cfg, logger, os.Args[2:])
	case "sources":
		sourcesCmd(cfg, logger, os.Args[2:])
	default:
		logger.Printf("unknown command: %s", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// buildService assembles the chat pipeline from whatever is configured.
// Missing secrets never abort startup: generation and the Drive group are
// simply left out and the UI shows the corresponding warning.
func buildService(ctx context.Context, cfg config.Config, logger *log.Logger) *chat.Service {
	groups := docsource.BuiltinGroups()

	var store docsource.Store
	if cfg.DriveConfigured() {
		driveStore, err := docsource.NewDriveStore(ctx, cfg.GoogleCredentialsFile)
		if err != nil {
			logger.Printf("drive setup failed, drive group disabled: %v", err)
		} else {
			store = driveStore
			groups = append(groups, docsource.DriveGroup(cfg.DriveFolderID))
		}
	} else {
		logger.Printf("drive credentials not configured, drive group disabled")
	}

	var llmClient llm.Client
	if cfg.GenerationConfigured() {
		client, err := llm.NewClient(ctx, cfg)
		if err != nil {
			logger.Printf("llm setup failed, generation disabled: %v", err)
		} else {
			llmClient = client
		}
	} else {
		logger.Printf("no API key for provider %s, generation disabled", cfg.LLM.Provider)
	}

	resolver := docsource.NewResolver(store, nil, logger)
	return chat.NewService(groups, resolver, llmClient, logger)
}

func serveCmd(cfg config.Config, logger *log.Logger, args []string) {
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := flags.String("addr", cfg.ListenAddr, "address to listen on")
	if err := flags.Parse(args); err != nil {
		logger.Fatalf("parse serve flags: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc := buildService(ctx, cfg, logger)
	server := api.New(ctx, svc, logger)

	httpServer := &http.Server{Addr: *addr, Handler: server.Handler()}

	go func() {
		<-ctx.Done()
		if err := httpServer.Shutdown(context.Background()); err != nil {
			logger.Printf("shutdown: %v", err)
		}
	}()

	logger.Printf("serving chat UI on %s (provider %s/%s)", *addr, cfg.LLM.Provider, cfg.LLM.Model)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("serve: %v", err)
	}
}

func chatCmd(cfg config.Config, logger *log.Logger, args []string) {
	flags := flag.NewFlagSet("chat", flag.ExitOnError)
	groupID := flags.String("group", "", "knowledge group to chat with (default: first group)")
	question := flags.String("question", "", "single question to ask; empty starts an interactive session")
	if err := flags.Parse(args); err != nil {
		logger.Fatalf("parse chat flags: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc := buildService(ctx, cfg, logger)
	sess := svc.NewSession(ctx)

	if *groupID != "" {
		if err := svc.SelectGroup(ctx, sess, *groupID); err != nil {
			logger.Fatalf("select group: %v", err)
		}
	}

	if !sess.ContentLoaded {
		fmt.Println("⚠️  No se pudo cargar el contenido de este grupo.")
		return
	}

	for _, msg := range sess.Messages {
		fmt.Println(msg.Content)
	}

	if strings.TrimSpace(*question) != "" {
		reply := svc.Ask(ctx, sess, strings.TrimSpace(*question))
		fmt.Println(reply.Content)
		return
	}

	if len(sess.Suggestions) > 0 {
		fmt.Println("\nSugerencias:")
		for i, sugg := range sess.Suggestions {
			fmt.Printf("  %d. %s\n", i+1, sugg)
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				logger.Fatalf("read question: %v", err)
			}
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		reply := svc.Ask(ctx, sess, line)
		fmt.Println(reply.Content)
	}
}

func sourcesCmd(cfg config.Config, logger *log.Logger, args []string) {
	flags := flag.NewFlagSet("sources", flag.ExitOnError)
	groupID := flags.String("group", "", "knowledge group to inspect (default: all groups)")
	if err := flags.Parse(args); err != nil {
		logger.Fatalf("parse sources flags: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc := buildService(ctx, cfg, logger)

	for _, group := range svc.Groups() {
		if *groupID != "" && group.ID != *groupID {
			continue
		}
		fmt.Printf("%s (%s)\n", group.Name, group.ID)
		corpus := svc.ResolveGroup(ctx, group)
		if !corpus.OK {
			fmt.Println("  ⚠️  no content loaded")
			continue
		}
		for _, name := range corpus.Names {
			fmt.Printf("  - %s\n", name)
		}
	}
}

func printUsage() {
	fmt.Println("Usage: doc-chat <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  serve    Serve the chat UI and HTTP API")
	fmt.Println("  chat     Chat with a knowledge group from the terminal")
	fmt.Println("  sources  List the resolved sources of each knowledge group")
}
