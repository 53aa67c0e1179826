package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"neoncore/console/internal/app"
	"neoncore/console/internal/assistant"
	"neoncore/console/internal/config"
	"neoncore/console/internal/docstore"
	"neoncore/console/internal/domain"
	"neoncore/console/internal/identity"
	"neoncore/console/internal/session"
	"neoncore/console/internal/view"
)

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := openStore(ctx, cfg)
	defer store.Close()

	var local docstore.Store
	if cfg.StateDir != "" {
		fileStore, err := docstore.NewFileStore(cfg.StateDir)
		if err != nil {
			log.Fatalf("state dir failed: %v", err)
		}
		local = fileStore
	}

	var provider identity.Provider
	if cfg.IdentityURL != "" {
		log.Printf("Using hosted identity provider at %s", cfg.IdentityURL)
		provider = identity.NewRESTProvider(cfg.IdentityURL, cfg.IdentityAPIKey)
	} else {
		log.Printf("Using local identity provider")
		provider = identity.NewLocalProvider(store)
	}

	controller := session.New(provider, store)
	controller.SetFetchTimeout(cfg.FetchTimeout)

	router := view.NewRouter()
	controller.OnChange(func(snap session.Snapshot) {
		router.Apply(snap)
		if snap.User != nil {
			log.Printf("session: %s as %s", snap.Phase, snap.User.Name)
		} else if !snap.Loading {
			log.Printf("session: %s", snap.Phase)
		}
	})

	service := app.New(store, local, provider, controller)
	if err := service.Bootstrap(ctx); err != nil {
		log.Printf("WARNING: bootstrap error (will retry on next restart): %v", err)
	}

	bridge := assistant.NewBridge(cfg.AssistantURL, cfg.AssistantAPIKey, cfg.AssistantModel)
	conversation := assistant.NewConversation(bridge)

	runErr := make(chan error, 1)
	go func() {
		runErr <- controller.Run(ctx)
	}()

	go shell(ctx, cancel, service, controller, router, conversation)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		cancel()
		<-runErr
	case err := <-runErr:
		if err != nil && ctx.Err() == nil {
			log.Fatalf("session loop failed: %v", err)
		}
	}
}

func openStore(ctx context.Context, cfg config.Config) docstore.Store {
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		db, err := docstore.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		store := docstore.NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			log.Fatalf("schema failed: %v", err)
		}
		log.Printf("Using PostgreSQL document store")
		return store
	}
	if strings.TrimSpace(cfg.RedisURL) != "" {
		store, err := docstore.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		log.Printf("Using Redis document store")
		return store
	}
	log.Printf("Using in-memory document store (nothing will survive restart)")
	return docstore.NewMemoryStore()
}

// shell is a minimal line-oriented surface over the console core. One
// command per line; the real presentation layer lives elsewhere.
func shell(ctx context.Context, quit context.CancelFunc, service *app.Service, controller *session.Controller, router *view.Router, conversation *assistant.Conversation) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("NEON-CORE console. Type 'help' for commands.")

	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch cmd, args := fields[0], fields[1:]; cmd {
		case "help":
			fmt.Println("commands: register <email> <password> [alias] | login <email> <password> | logout")
			fmt.Println("          view <name> | teams | proposals | vote <id> up|down | submit <title> -- <description>")
			fmt.Println("          awards | profile <name> <purple|blue|green> | team <id> <name|motto> <value...>")
			fmt.Println("          ask <prompt...> | whoami | quit")
		case "register":
			if len(args) < 2 {
				fmt.Println("usage: register <email> <password> [alias]")
				continue
			}
			alias := ""
			if len(args) > 2 {
				alias = args[2]
			}
			report(service.Register(ctx, args[0], args[1], alias))
		case "login":
			if len(args) < 2 {
				fmt.Println("usage: login <email> <password>")
				continue
			}
			report(service.Login(ctx, args[0], args[1]))
		case "logout":
			report(service.Logout(ctx))
		case "view":
			if len(args) < 1 {
				fmt.Printf("current view: %s\n", router.Current())
				continue
			}
			if err := router.Navigate(view.View(args[0])); err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			fmt.Printf("%s - %s\n", router.Current(), view.Title(router.Current()))
		case "teams":
			for i, team := range service.Leaderboard() {
				fmt.Printf("%d. %s - %d XP (%d pilotos) %q\n", i+1, team.Name, team.Score, len(team.Members), team.Motto)
			}
		case "proposals":
			for _, p := range service.Proposals() {
				fmt.Printf("[%s] %s by %s (+%d/-%d): %s\n", p.Status, p.Title, p.Author, p.Upvotes, p.Downvotes, p.Description)
			}
		case "vote":
			if len(args) < 2 {
				fmt.Println("usage: vote <id> up|down")
				continue
			}
			report(service.Vote(ctx, args[0], app.Direction(args[1])))
		case "submit":
			title, description, ok := splitSubmission(args)
			if !ok {
				fmt.Println("usage: submit <title> -- <description>")
				continue
			}
			if _, err := service.SubmitProposal(ctx, title, description); err != nil {
				fmt.Printf("error: %v\n", err)
			}
		case "awards":
			user := controller.CurrentUser()
			if user == nil {
				fmt.Println("error: authentication required")
				continue
			}
			for _, ach := range service.Achievements() {
				state := "bloqueado"
				if service.IsUnlocked(*user, ach.ID) {
					state = "obtenido"
				}
				fmt.Printf("[%s] %s (%s): %s\n", state, ach.Name, ach.Rarity, ach.Description)
			}
		case "profile":
			if len(args) < 2 {
				fmt.Println("usage: profile <name> <purple|blue|green>")
				continue
			}
			if err := service.SaveProfile(ctx, args[0], domain.ThemeColor(args[1])); err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			fmt.Printf("accent: %s\n", service.Accent())
		case "team":
			if len(args) < 3 {
				fmt.Println("usage: team <id> <name|motto> <value...>")
				continue
			}
			value := strings.Join(args[2:], " ")
			patch := app.TeamPatch{}
			switch args[1] {
			case "name":
				patch.Name = &value
			case "motto":
				patch.Motto = &value
			default:
				fmt.Println("usage: team <id> <name|motto> <value...>")
				continue
			}
			report(service.UpdateTeamProfile(ctx, args[0], patch))
		case "ask":
			reply := conversation.Send(ctx, strings.Join(args, " "), assistant.SessionContext{
				User:  controller.CurrentUser(),
				Teams: service.Teams(),
			})
			if reply != "" {
				fmt.Printf("NOVA: %s\n", reply)
			}
		case "whoami":
			snap := controller.Snapshot()
			if snap.User == nil {
				fmt.Printf("%s\n", snap.Phase)
				continue
			}
			fmt.Printf("%s <%s> - %d pts, rank %d, theme %s\n", snap.User.Name, snap.User.Email, snap.User.Points, snap.User.Rank, snap.User.ThemeColor)
		case "quit", "exit":
			quit()
			return
		default:
			fmt.Printf("unknown command %q (try 'help')\n", cmd)
		}
	}
}

func report(err error) {
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Println("ok")
}

func splitSubmission(args []string) (title, description string, ok bool) {
	for i, a := range args {
		if a == "--" {
			return strings.Join(args[:i], " "), strings.Join(args[i+1:], " "), i > 0
		}
	}
	if len(args) == 0 {
		return "", "", false
	}
	return strings.Join(args, " "), "", true
}
