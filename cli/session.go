package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/spirit-labs/endbclient/client"
	"github.com/spirit-labs/endbclient/conf"
	"github.com/spirit-labs/endbclient/errors"
	log "github.com/spirit-labs/endbclient/logger"
)

// EOF is the line a LineReader yields, or a caller passes to Execute, when input is exhausted.
const EOF = "EOF"

type SessionConfig struct {
	Endpoint string
	Accept   client.AcceptFormat
	Username *string
	Password *string
	Timer    bool
	TLS      conf.TLSConfig
}

// ClientOptions returns the options for a client reflecting the current settings. Credentials are only sent when a
// username or a password has been set.
func (s *SessionConfig) ClientOptions() client.Options {
	opts := client.Options{
		Endpoint: s.Endpoint,
		Accept:   s.Accept,
		TLS:      &s.TLS,
	}
	if s.Username != nil || s.Password != nil {
		opts.Credentials = &client.Credentials{Username: valueOrEmpty(s.Username), Password: valueOrEmpty(s.Password)}
	}
	return opts
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Querier executes a single query using the session's current settings.
type Querier func(ctx context.Context, cfg SessionConfig, query string) (*client.Result, error)

func clientQuerier(ctx context.Context, cfg SessionConfig, query string) (*client.Result, error) {
	return client.SQL(ctx, cfg.ClientOptions(), query)
}

// LineReader supplies input lines to Run. It returns io.EOF when there is no more input.
type LineReader interface {
	ReadLine() (string, error)
}

type SessionOption func(*Session)

func WithQuerier(querier Querier) SessionOption {
	return func(s *Session) {
		s.querier = querier
	}
}

func WithLineWidth(width int) SessionOption {
	return func(s *Session) {
		s.printer = NewPrinter(width)
	}
}

// Session is an interactive console over one endpoint. It is not safe for concurrent use.
type Session struct {
	cfg      SessionConfig
	out      io.Writer
	querier  Querier
	printer  *Printer
	errStyle lipgloss.Style
	dimStyle lipgloss.Style
}

func NewSession(cfg SessionConfig, out io.Writer, opts ...SessionOption) *Session {
	if cfg.Endpoint == "" {
		cfg.Endpoint = conf.DefaultEndpoint
	}
	if cfg.Accept == "" {
		cfg.Accept = conf.DefaultAccept
	}
	renderer := lipgloss.NewRenderer(out)
	s := &Session{
		cfg:      cfg,
		out:      out,
		querier:  clientQuerier,
		printer:  NewPrinter(conf.DefaultLineWidth),
		errStyle: renderer.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		dimStyle: renderer.NewStyle().Faint(true),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Config() SessionConfig {
	return s.cfg
}

// Run reads and executes lines until the session is stopped or the input is exhausted.
func (s *Session) Run(ctx context.Context, reader LineReader) error {
	for ctx.Err() == nil {
		line, err := reader.ReadLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.WithStack(err)
		}
		if s.Execute(ctx, line) {
			return nil
		}
	}
	return nil
}

// Execute dispatches a single line and returns true if the session should stop. Query errors are written to the
// output and never stop the session.
func (s *Session) Execute(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if line == EOF {
		return true
	}
	name, arg := splitCommand(line)
	if cmd, ok := commands[name]; ok {
		return cmd.handle(s, commandArg(arg))
	}
	s.runQuery(ctx, line)
	return false
}

func (s *Session) runQuery(ctx context.Context, query string) {
	start := time.Now()
	err := s.ExecuteQuery(ctx, query)
	if err != nil {
		log.Debugf("query failed: %+v", err)
		s.printError(err)
	}
	if s.cfg.Timer {
		elapsed := float64(time.Since(start).Nanoseconds()) / float64(time.Millisecond)
		s.println(s.dimStyle.Render(fmt.Sprintf("Elapsed: %f ms", elapsed)))
	}
}

// ExecuteQuery runs query and writes its result. Errors are returned rather than written.
func (s *Session) ExecuteQuery(ctx context.Context, query string) error {
	res, err := s.querier(ctx, s.cfg, query)
	if err != nil {
		return err
	}
	return s.printResult(res)
}

func (s *Session) printResult(res *client.Result) error {
	switch res.Format {
	case client.CSV:
		s.println(strings.TrimRightFunc(res.Text(), unicode.IsSpace))
	case client.ArrowFile:
		if _, err := s.out.Write(res.Payload); err != nil {
			return errors.WithStack(err)
		}
	default:
		s.println(s.printer.Sprint(res.Value))
	}
	return nil
}

func (s *Session) printError(err error) {
	var httpErr *errors.HTTPError
	if errors.As(err, &httpErr) {
		s.println(s.errStyle.Render(fmt.Sprintf("%d %s", httpErr.Status, httpErr.Reason)))
		if httpErr.Body != "" {
			s.println(httpErr.Body)
		}
		return
	}
	var transportErr *errors.TransportError
	if errors.As(err, &transportErr) {
		s.println(s.errStyle.Render(transportErr.Endpoint))
		s.println(transportErr.Reason)
		return
	}
	s.println(s.errStyle.Render(err.Error()))
}

func (s *Session) println(line string) {
	if _, err := fmt.Fprintln(s.out, line); err != nil {
		log.Warnf("failed to write output %v", err)
	}
}
