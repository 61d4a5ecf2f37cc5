package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/broady/ejabberd"
	"github.com/broady/ejabberd/api"
	"github.com/broady/ejabberd/internal/config"
	"github.com/broady/ejabberd/middleware"
	"github.com/broady/ejabberd/muc"
	"github.com/broady/ejabberd/transport"
)

type CLI struct {
	Globals

	Version     VersionCmd     `cmd:"" help:"Print version information."`
	Methods     MethodsCmd     `cmd:"" help:"List the operations and their arguments."`
	Call        CallCmd        `cmd:"" help:"Invoke an operation by wire name."`
	RoomOptions RoomOptionsCmd `cmd:"" help:"Show the options of a room."`
	SetOption   SetOptionCmd   `cmd:"" name:"set-option" help:"Change one option of a room."`
}

// Globals override the EJABBERD_* environment variables.
type Globals struct {
	URL      string        `help:"XML-RPC listener URL." placeholder:"URL"`
	User     string        `help:"Admin account used to authenticate."`
	Server   string        `help:"Virtual host of the admin account."`
	Password string        `help:"Password of the admin account."`
	Timeout  time.Duration `help:"Per-call timeout."`
	Retries  int           `help:"Retries after a failed network call (-1 keeps EJABBERD_MAX_RETRIES)." default:"-1"`
	LogLevel string        `help:"Log level (debug, info, warn, error)." name:"log-level"`

	out io.Writer
}

func (g *Globals) config() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if g.URL != "" {
		cfg.URL = g.URL
	}
	if g.User != "" {
		cfg.User = g.User
	}
	if g.Server != "" {
		cfg.Server = g.Server
	}
	if g.Password != "" {
		cfg.Password = g.Password
	}
	if g.Timeout > 0 {
		cfg.Timeout = g.Timeout
	}
	if g.Retries >= 0 {
		cfg.MaxRetries = uint64(g.Retries)
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (g *Globals) client() (*ejabberd.Client, func(), error) {
	cfg, err := g.config()
	if err != nil {
		return nil, nil, err
	}
	logger := cfg.Logger(os.Stderr)

	tc := cfg.TransportConfig()
	tc.Logger = logger
	x, err := transport.NewXMLRPC(tc)
	if err != nil {
		return nil, nil, err
	}

	var t api.Transport = x
	if cfg.MaxRetries > 0 {
		t = transport.Retry(x, transport.RetryPolicy{MaxRetries: cfg.MaxRetries, Logger: logger})
	}
	client := ejabberd.NewClient(t).
		WithLogger(logger).
		WithInterceptor(middleware.Logging(logger))
	return client, func() { x.Close() }, nil
}

func (g *Globals) print(v any) error {
	enc := json.NewEncoder(g.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	fmt.Fprintln(g.out, Version())
	return nil
}

type MethodsCmd struct {
	Method string `arg:"" optional:"" help:"Only describe this operation."`
}

func (c *MethodsCmd) Run(g *Globals) error {
	for _, md := range ejabberd.Operations().Describe() {
		if c.Method != "" && md.Method != c.Method {
			continue
		}
		fmt.Fprintf(g.out, "%s(%s) %s\n", md.Method, describeArguments(md.Inputs), md.Result)
	}
	return nil
}

func describeArguments(args []api.Argument) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		kind := a.Kind.String()
		if a.Domain != nil {
			kind = a.Domain.Domain()
		}
		s := a.Name + " " + kind
		if !a.Required {
			s += "?"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

type CallCmd struct {
	Method string   `arg:"" help:"Wire method name, e.g. registered_users."`
	Args   []string `arg:"" optional:"" help:"Arguments as name=value pairs."`
}

func (c *CallCmd) Run(g *Globals) error {
	ep, ok := ejabberd.Operations().Lookup(c.Method)
	if !ok {
		return api.Errorf(api.CodeUnknownMethod, "unknown method %s", c.Method)
	}
	args, err := parseArgs(ep.Metadata().Inputs, c.Args)
	if err != nil {
		return err
	}

	client, closeFn, err := g.client()
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := client.Call(context.Background(), c.Method, args)
	if err != nil {
		return err
	}
	return g.print(res)
}

// parseArgs converts name=value pairs into keyword arguments typed by inputs.
// Names not declared by the operation are passed through as text so the
// invoker reports them.
func parseArgs(inputs []api.Argument, pairs []string) (api.Args, error) {
	declared := make(map[string]api.Argument, len(inputs))
	for _, a := range inputs {
		declared[a.Name] = a
	}
	args := make(api.Args, len(pairs))
	for _, p := range pairs {
		name, text, ok := strings.Cut(p, "=")
		if !ok {
			return nil, api.Errorf(api.CodeInvalidArgument, "%q: expected name=value", p)
		}
		a, known := declared[name]
		if !known {
			args[name] = text
			continue
		}
		v, err := a.Parse(text)
		if err != nil {
			return nil, err
		}
		args[name] = v
	}
	return args, nil
}

type RoomOptionsCmd struct {
	Name    string `arg:"" help:"Room name."`
	Service string `arg:"" help:"MUC service, e.g. conference.example.com."`
}

func (c *RoomOptionsCmd) Run(g *Globals) error {
	client, closeFn, err := g.client()
	if err != nil {
		return err
	}
	defer closeFn()

	raw, err := client.RoomOptions(context.Background(), c.Name, c.Service)
	if err != nil {
		return err
	}
	typed, err := muc.DecodeOptions(raw)
	if err != nil {
		return err
	}
	out := make(map[string]any, len(typed))
	for option, v := range typed {
		if s, ok := v.(fmt.Stringer); ok {
			v = s.String()
		}
		out[option.String()] = v
	}
	return g.print(out)
}

type SetOptionCmd struct {
	Name    string `arg:"" help:"Room name."`
	Service string `arg:"" help:"MUC service."`
	Option  string `arg:"" help:"Option name, e.g. max_users."`
	Value   string `arg:"" help:"New value."`
}

func (c *SetOptionCmd) Run(g *Globals) error {
	option, err := muc.ParseRoomOption(c.Option)
	if err != nil {
		return err
	}
	value, err := muc.ParseOptionValue(option, c.Value)
	if err != nil {
		return err
	}

	client, closeFn, err := g.client()
	if err != nil {
		return err
	}
	defer closeFn()

	ok, err := client.ChangeRoomOption(context.Background(), c.Name, c.Service, option, value)
	if err != nil {
		return err
	}
	return g.print(ok)
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("ejabberdctl"),
		kong.Description("Administer an ejabberd server through its XML-RPC API."),
		kong.UsageOnError(),
	)
	cli.Globals.out = os.Stdout
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
