package cli

import (
	"sort"
	"strings"
	"unicode"

	"github.com/spirit-labs/endbclient/client"
	"github.com/spirit-labs/endbclient/conf"
)

const (
	passwordMask = "*******"
	notSet       = "None"
)

type command struct {
	help   string
	args   []string
	handle func(s *Session, arg string) bool
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"timer":    {help: "Sets or shows timer.", args: []string{"on", "off"}, handle: (*Session).handleTimer},
		"accept":   {help: "Sets or shows the accepted mime type.", args: acceptArgs(), handle: (*Session).handleAccept},
		"url":      {help: "Sets or shows the database URL.", handle: (*Session).handleURL},
		"username": {help: "Sets or shows the database user.", handle: (*Session).handleUsername},
		"password": {help: "Sets the database password.", handle: (*Session).handlePassword},
		"quit":     {help: "Quits the console.", handle: (*Session).handleQuit},
		"help":     {help: "Lists the available commands.", handle: (*Session).handleHelp},
	}
}

func acceptArgs() []string {
	var args []string
	for _, format := range client.AcceptFormats() {
		args = append(args, string(format))
	}
	return args
}

// CommandNames returns the session commands in alphabetical order.
func CommandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CommandArgs returns the known argument values of a command, for completion.
func CommandArgs(name string) []string {
	return commands[name].args
}

// splitCommand splits a line into its leading identifier and the trimmed remainder.
func splitCommand(line string) (string, string) {
	i := strings.IndexFunc(line, func(r rune) bool {
		return !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	if i == -1 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i:])
}

// commandArg strips a leading '=' and the whitespace after it, so "url = x" and "url x" are the same.
func commandArg(arg string) string {
	if strings.HasPrefix(arg, "=") {
		return strings.TrimLeftFunc(arg[1:], unicode.IsSpace)
	}
	return arg
}

func (s *Session) handleTimer(arg string) bool {
	if arg != "" {
		s.cfg.Timer = arg == "on"
	}
	if s.cfg.Timer {
		s.println("on")
	} else {
		s.println("off")
	}
	return false
}

func (s *Session) handleAccept(arg string) bool {
	if arg != "" {
		format, err := client.ParseAcceptFormat(arg)
		if err != nil {
			s.printError(err)
			return false
		}
		s.cfg.Accept = format
	}
	s.println(string(s.cfg.Accept))
	return false
}

func (s *Session) handleURL(arg string) bool {
	if arg != "" {
		if err := conf.ValidateEndpoint(arg); err != nil {
			s.printError(err)
			return false
		}
		s.cfg.Endpoint = arg
	}
	s.println(s.cfg.Endpoint)
	return false
}

func (s *Session) handleUsername(arg string) bool {
	if arg != "" {
		s.cfg.Username = &arg
	}
	if s.cfg.Username == nil {
		s.println(notSet)
	} else {
		s.println(*s.cfg.Username)
	}
	return false
}

func (s *Session) handlePassword(arg string) bool {
	if arg != "" {
		s.cfg.Password = &arg
	}
	if s.cfg.Password == nil {
		s.println(notSet)
	} else {
		s.println(passwordMask)
	}
	return false
}

func (s *Session) handleQuit(string) bool {
	return true
}

func (s *Session) handleHelp(string) bool {
	for _, name := range CommandNames() {
		s.println(name + strings.Repeat(" ", 10-len(name)) + commands[name].help)
	}
	return false
}
