package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/jaramgle/storyclient"
)

// Run parses args and executes one storyctl command.
func Run(args []string) error {
	options := &Options{}
	if _, err := flags.ParseArgs(options, args); err != nil {
		return err
	}
	if options.URL == "" {
		return errors.New("platform api base url is required (-u or STORYCLIENT_BASE_URL)")
	}
	tokenFile := options.TokenFile
	if tokenFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home dir: %w", err)
		}
		tokenFile = filepath.Join(home, ".jaramgle", "credentials.json")
	}
	logger := zap.NewNop()
	if options.Verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
	}

	cli, err := storyclient.New(options.URL,
		storyclient.WithTokenFile(tokenFile),
		storyclient.WithLogger(logger),
		storyclient.WithOnAuthExpired(func(err error) {
			fmt.Fprintln(os.Stderr, "session expired, run `storyctl login`")
		}),
	)
	if err != nil {
		return err
	}

	ctx := context.Background()
	switch options.Args.Command {
	case "login":
		return login(ctx, cli, options.Provider)
	case "logout":
		return cli.Session().Logout(ctx)
	case "me":
		profile, err := cli.Account.Me(ctx)
		if err != nil {
			return err
		}
		return printJSON(profile)
	case "stories":
		stories, err := cli.Stories.List(ctx)
		if err != nil {
			return err
		}
		return printJSON(stories)
	case "story":
		if len(options.Args.Rest) == 0 {
			return errors.New("usage: storyctl story <id>")
		}
		id, err := strconv.ParseInt(options.Args.Rest[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid story id %q", options.Args.Rest[0])
		}
		story, err := cli.Stories.Get(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(story)
	case "story-delete":
		if len(options.Args.Rest) == 0 {
			return errors.New("usage: storyctl story-delete <id>")
		}
		id, err := strconv.ParseInt(options.Args.Rest[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid story id %q", options.Args.Rest[0])
		}
		if err := cli.Stories.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Printf("deleted story %d\n", id)
		return nil
	case "board":
		stories, err := cli.Board.SharedStories(ctx)
		if err != nil {
			return err
		}
		return printJSON(stories)
	case "wallet":
		wallet, err := cli.Billing.Wallet(ctx)
		if err != nil {
			return err
		}
		return printJSON(wallet)
	case "":
		return errors.New("missing command: login | logout | me | stories | story | story-delete | board | wallet")
	default:
		return fmt.Errorf("unknown command %q", options.Args.Command)
	}
}

// login prints the browser login entry point and completes the session from
// the pasted callback tokens.
func login(ctx context.Context, cli *storyclient.Client, provider string) error {
	fmt.Printf("Open the following URL in a browser and sign in:\n\n  %s\n\n", cli.Session().LoginURL(provider))
	fmt.Println("Paste the accessToken and refreshToken from the callback URL:")
	reader := bufio.NewReader(os.Stdin)
	access, err := readLine(reader, "accessToken: ")
	if err != nil {
		return err
	}
	refresh, err := readLine(reader, "refreshToken: ")
	if err != nil {
		return err
	}
	profile, err := cli.Session().CompleteLogin(ctx, access, refresh)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (%s)\n", profile.Nickname, profile.Email)
	return nil
}

func readLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
