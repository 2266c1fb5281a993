// Command confctl is the admin CLI for the configd HTTP API.
//
// Usage:
//
//	confctl [global flags] <command> [command flags]
//
// Commands:
//
//	get        resolve a key (optionally bypassing the cache)
//	set        create or replace a global entry
//	delete     remove a global entry
//	list       page through global entries
//	invalidate drop cached resolutions of a key
//	override   set or delete a per-user override
//	version    print the server's build version
//	token      mint an access token from the shared sign key
//
// Connection settings come from the -server and -token flags, falling back
// to the CONFCTL_SERVER and CONFCTL_TOKEN environment variables.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/narravo/configd/internal/client"
	"github.com/narravo/configd/internal/utils"
	"github.com/narravo/configd/models"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "confctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("confctl", flag.ContinueOnError)
	serverAddr := global.String("server", envOr("CONFCTL_SERVER", "http://localhost:8080"), "configd server address")
	token := global.String("token", os.Getenv("CONFCTL_TOKEN"), "bearer token")
	timeout := global.Duration("timeout", 30*time.Second, "request timeout")

	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return fmt.Errorf("no command given")
	}

	command := global.Arg(0)
	rest := global.Args()[1:]

	// token minting needs no server connection
	if command == "token" {
		return mintToken(rest)
	}

	api, err := client.New(client.Config{
		BaseURL:        *serverAddr,
		Token:          *token,
		RequestTimeout: *timeout,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch command {
	case "get":
		return cmdGet(ctx, api, rest)
	case "set":
		return cmdSet(ctx, api, rest)
	case "delete":
		return cmdDelete(ctx, api, rest)
	case "list":
		return cmdList(ctx, api, rest)
	case "invalidate":
		return cmdInvalidate(ctx, api, rest)
	case "override":
		return cmdOverride(ctx, api, rest)
	case "version":
		return cmdVersion(ctx, api)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func cmdGet(ctx context.Context, api *client.AdminClient, args []string) error {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	fresh := fs.Bool("fresh", false, "bypass the server-side cache")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: confctl get [-fresh] <key>")
	}

	resolved, err := api.Resolve(ctx, fs.Arg(0), *fresh)
	if err != nil {
		return err
	}

	return printJSON(resolved)
}

func cmdSet(ctx context.Context, api *client.AdminClient, args []string) error {
	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	valueType := fs.String("type", "", "value type (string, integer, number, boolean, date, datetime, json)")
	allowed := fs.String("allowed", "", "JSON array of allowed values, e.g. '[\"10\",\"20\",\"50\"]'")
	required := fs.Bool("required", false, "mark the key as required")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: confctl set [-type t] [-allowed json] [-required] <key> <value>")
	}

	payload := models.SettingPayload{
		Value:    encodeValueArg(fs.Arg(1)),
		Type:     models.ValueType(*valueType),
		Required: *required,
	}
	if *allowed != "" {
		if err := json.Unmarshal([]byte(*allowed), &payload.AllowedValues); err != nil {
			return fmt.Errorf("invalid -allowed value: %w", err)
		}
	}

	saved, err := api.PutSetting(ctx, fs.Arg(0), payload)
	if err != nil {
		return err
	}

	return printJSON(saved)
}

func cmdDelete(ctx context.Context, api *client.AdminClient, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: confctl delete <key>")
	}
	return api.DeleteSetting(ctx, args[0])
}

func cmdList(ctx context.Context, api *client.AdminClient, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	prefix := fs.String("prefix", "", "key prefix filter")
	limit := fs.Uint64("limit", 0, "page size (0 = no limit)")
	offset := fs.Uint64("offset", 0, "page offset")
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := api.ListSettings(ctx, *prefix, *limit, *offset)
	if err != nil {
		return err
	}

	return printJSON(list)
}

func cmdInvalidate(ctx context.Context, api *client.AdminClient, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: confctl invalidate <key>")
	}
	return api.InvalidateSetting(ctx, args[0])
}

func cmdOverride(ctx context.Context, api *client.AdminClient, args []string) error {
	fs := flag.NewFlagSet("override", flag.ContinueOnError)
	user := fs.String("user", "", "user the override applies to")
	del := fs.Bool("delete", false, "delete the override instead of setting it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *user == "" {
		return fmt.Errorf("override requires -user")
	}

	if *del {
		if fs.NArg() != 1 {
			return fmt.Errorf("usage: confctl override -user u -delete <key>")
		}
		return api.DeleteUserOverride(ctx, *user, fs.Arg(0))
	}

	if fs.NArg() != 2 {
		return fmt.Errorf("usage: confctl override -user u <key> <value>")
	}

	saved, err := api.PutUserOverride(ctx, *user, fs.Arg(0), encodeValueArg(fs.Arg(1)))
	if err != nil {
		return err
	}

	return printJSON(saved)
}

func cmdVersion(ctx context.Context, api *client.AdminClient) error {
	version, err := api.Version(ctx)
	if err != nil {
		return err
	}
	fmt.Println(version)
	return nil
}

func mintToken(args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	signKey := fs.String("sign-key", os.Getenv("CONFCTL_SIGN_KEY"), "token signing key shared with the server")
	issuer := fs.String("issuer", envOr("CONFCTL_ISSUER", "configd"), "token issuer")
	userID := fs.String("user", "", "token subject")
	role := fs.String("role", models.RoleAdmin, "token role (user or admin)")
	duration := fs.Duration("duration", time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userID == "" {
		return fmt.Errorf("token requires -user")
	}

	token, err := utils.GenerateJWTToken(*issuer, *userID, *role, *duration, *signKey)
	if err != nil {
		return err
	}

	fmt.Println(token.SignedString)
	return nil
}

// encodeValueArg turns a CLI value argument into the raw JSON the API
// expects: valid JSON text passes through, everything else is sent as a
// JSON string.
func encodeValueArg(arg string) json.RawMessage {
	if json.Valid([]byte(arg)) {
		return json.RawMessage(arg)
	}
	raw, _ := json.Marshal(arg)
	return json.RawMessage(raw)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func envOr(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
