package commands

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spirit-labs/endbclient/cli"
	"github.com/spirit-labs/endbclient/conf"
	"github.com/spirit-labs/endbclient/errors"
)

const maxLineSize = 16 * 1024 * 1024

type ShellCommand struct {
	VI          bool   `help:"Enable VI mode."`
	HistoryFile string `help:"Path of the history file used by the interactive shell. Defaults to ~/.endb_history"`
}

// Run reads lines with readline, showing a prompt and completing session commands. Used when stdin is a terminal.
func (c *ShellCommand) Run(ctx context.Context, session *cli.Session) error {
	historyFile, err := c.historyFile()
	if err != nil {
		return err
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 conf.DefaultPrompt,
		HistoryFile:            historyFile,
		DisableAutoSaveHistory: true,
		AutoComplete:           newCompleter(),
		VimMode:                c.VI,
	})
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		_ = rl.Close()
	}()
	return session.Run(ctx, &readlineReader{rl: rl})
}

// RunPiped reads lines from in without a prompt. Used when stdin is not a terminal.
func (c *ShellCommand) RunPiped(ctx context.Context, session *cli.Session, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return session.Run(ctx, &scannerReader{scanner: scanner})
}

func (c *ShellCommand) SendStatement(ctx context.Context, session *cli.Session, statement string) error {
	return session.ExecuteQuery(ctx, strings.TrimSpace(statement))
}

func (c *ShellCommand) historyFile() (string, error) {
	if c.HistoryFile != "" {
		return c.HistoryFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WithStack(err)
	}
	return filepath.Join(home, conf.DefaultHistoryFile), nil
}

func newCompleter() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, name := range cli.CommandNames() {
		var args []readline.PrefixCompleterInterface
		for _, arg := range cli.CommandArgs(name) {
			args = append(args, readline.PcItem(arg))
		}
		items = append(items, readline.PcItem(name, args...))
	}
	return readline.NewPrefixCompleter(items...)
}

type readlineReader struct {
	rl *readline.Instance
}

func (r *readlineReader) ReadLine() (string, error) {
	line, err := r.rl.Readline()
	if err == readline.ErrInterrupt {
		// CTRL-C ends the session silently
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		_ = r.rl.SaveHistory(line)
	}
	return line, nil
}

type scannerReader struct {
	scanner *bufio.Scanner
}

func (s *scannerReader) ReadLine() (string, error) {
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", errors.WithStack(err)
	}
	return "", io.EOF
}
