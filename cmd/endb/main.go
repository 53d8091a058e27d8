// Copyright 2024 The Tektite Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	konghcl "github.com/alecthomas/kong-hcl/v2"
	"github.com/chzyer/readline"
	"github.com/spirit-labs/endbclient/cli"
	"github.com/spirit-labs/endbclient/client"
	"github.com/spirit-labs/endbclient/cmd/endb/commands"
	"github.com/spirit-labs/endbclient/common"
	"github.com/spirit-labs/endbclient/conf"
	"github.com/spirit-labs/endbclient/errors"
	log "github.com/spirit-labs/endbclient/logger"
)

type arguments struct {
	Config    kong.ConfigFlag       `help:"Path to config file" type:"existingfile"`
	URL       string                `arg:"" optional:"" help:"URL of the endb SQL endpoint." default:"http://localhost:3803/sql"`
	Command   string                `help:"Single query to execute, non interactively" short:"c"`
	Accept    string                `help:"Accepted response format: json, json-ld, csv, arrow-file or a MIME type" default:"application/ld+json" env:"ENDB_ACCEPT"`
	Username  string                `help:"Database user" env:"ENDB_USERNAME"`
	Password  string                `help:"Database password" env:"ENDB_PASSWORD"`
	Timer     bool                  `help:"Print the elapsed time of each query"`
	Shell     commands.ShellCommand `embed:"" prefix:""`
	TLSConfig conf.TLSConfig        `help:"TLS client configuration" embed:"" prefix:"tls-"`
	Log       log.Config            `help:"Configuration for the logger" embed:"" prefix:"log-"`
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("%+v\n", err)
	}
}

func run() error {
	defer common.PanicHandler()
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	r := &runner{
		in:       os.Stdin,
		out:      os.Stdout,
		terminal: readline.IsTerminal(int(os.Stdin.Fd())),
	}
	return r.run(ctx, cfg)
}

func loadConfig(args []string) (*arguments, error) {
	cfg := arguments{}
	parser, err := kong.New(&cfg,
		kong.Name("endb"),
		kong.Description("Console for endb SQL endpoints"),
		kong.Configuration(konghcl.Loader))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	_, err = parser.Parse(args)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err := cfg.Log.Configure(); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := conf.ValidateEndpoint(cfg.URL); err != nil {
		return nil, err
	}
	if err := cfg.TLSConfig.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (a *arguments) sessionConfig() (cli.SessionConfig, error) {
	accept, err := client.ParseAcceptFormat(a.Accept)
	if err != nil {
		return cli.SessionConfig{}, err
	}
	sessionConf := cli.SessionConfig{
		Endpoint: a.URL,
		Accept:   accept,
		Timer:    a.Timer,
		TLS:      a.TLSConfig,
	}
	if a.Username != "" {
		sessionConf.Username = &a.Username
	}
	if a.Password != "" {
		sessionConf.Password = &a.Password
	}
	return sessionConf, nil
}

type runner struct {
	in       io.Reader
	out      io.Writer
	terminal bool
}

func (r *runner) run(ctx context.Context, cfg *arguments) error {
	sessionConf, err := cfg.sessionConfig()
	if err != nil {
		return err
	}
	session := cli.NewSession(sessionConf, r.out)
	shellCommand := &cfg.Shell
	if cfg.Command != "" {
		// execute single query
		return shellCommand.SendStatement(ctx, session, cfg.Command)
	}
	if !r.terminal {
		return shellCommand.RunPiped(ctx, session, r.in)
	}
	// interactive session
	log.Debugf("starting interactive session against %s", sessionConf.Endpoint)
	err = shellCommand.Run(ctx, session)
	_, _ = fmt.Fprintln(r.out)
	return err
}
