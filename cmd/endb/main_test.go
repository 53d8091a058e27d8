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
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spirit-labs/endbclient/cli"
	"github.com/spirit-labs/endbclient/client"
	"github.com/spirit-labs/endbclient/errors"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(nil)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:3803/sql", cfg.URL)
	require.Equal(t, "application/ld+json", cfg.Accept)
	require.Equal(t, "", cfg.Command)
	require.False(t, cfg.Timer)
	require.False(t, cfg.Shell.VI)

	sessionConf, err := cfg.sessionConfig()
	require.NoError(t, err)
	require.Equal(t, cli.SessionConfig{Endpoint: "http://localhost:3803/sql", Accept: client.JSONLD}, sessionConf)
}

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := loadConfig([]string{"--config", "testdata/config.hcl", "http://db.example.com:3803/sql"})
	require.NoError(t, err)
	require.Equal(t, "http://db.example.com:3803/sql", cfg.URL)
	require.Equal(t, "text/csv", cfg.Accept)
	require.Equal(t, "alice", cfg.Username)
	require.Equal(t, "secret", cfg.Password)
	require.True(t, cfg.Timer)
	require.True(t, cfg.Shell.VI)
	require.Equal(t, "/tmp/endb-history", cfg.Shell.HistoryFile)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)

	sessionConf, err := cfg.sessionConfig()
	require.NoError(t, err)
	require.Equal(t, client.CSV, sessionConf.Accept)
	require.Equal(t, "alice", *sessionConf.Username)
	require.Equal(t, "secret", *sessionConf.Password)

	// restore the default logger for the other tests
	cfg.Log.Level = "warn"
	cfg.Log.Format = "console"
	require.NoError(t, cfg.Log.Configure())
}

func TestLoadConfigFlags(t *testing.T) {
	cfg, err := loadConfig([]string{"-c", "SELECT 1", "--accept", "csv", "--username", "bob", "--timer"})
	require.NoError(t, err)
	require.Equal(t, "SELECT 1", cfg.Command)
	require.Equal(t, "csv", cfg.Accept)
	require.Equal(t, "bob", cfg.Username)
	require.True(t, cfg.Timer)
}

func TestLoadConfigInvalid(t *testing.T) {
	_, err := loadConfig([]string{"ftp://localhost/sql"})
	require.Error(t, err)
	require.True(t, errors.IsCode(err, errors.InvalidConfiguration))

	_, err = loadConfig([]string{"--no-such-flag"})
	require.Error(t, err)

	cfg, err := loadConfig([]string{"--accept", "text/xml"})
	require.NoError(t, err)
	_, err = cfg.sessionConfig()
	require.Error(t, err)
}

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch r.PostForm.Get("q") {
		case "SELECT 1":
			if r.Header.Get("Accept") == "text/csv" {
				_, _ = w.Write([]byte("column1\r\n1\r\n"))
				return
			}
			_, _ = w.Write([]byte(`{"@graph":[{"column1":1}]}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("syntax error"))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRunOneShot(t *testing.T) {
	server := startServer(t)
	cfg, err := loadConfig([]string{"-c", "SELECT 1", server.URL + "/sql"})
	require.NoError(t, err)
	out := &bytes.Buffer{}
	r := &runner{in: strings.NewReader(""), out: out}
	require.NoError(t, r.run(context.Background(), cfg))
	require.Equal(t, "[{\"column1\": 1}]\n", out.String())
}

func TestRunOneShotReturnsErrors(t *testing.T) {
	server := startServer(t)
	cfg, err := loadConfig([]string{"-c", "SELEC 1", server.URL + "/sql"})
	require.NoError(t, err)
	out := &bytes.Buffer{}
	r := &runner{in: strings.NewReader(""), out: out}
	err = r.run(context.Background(), cfg)
	var httpErr *errors.HTTPError
	require.True(t, errors.As(err, &httpErr))
	require.Equal(t, http.StatusBadRequest, httpErr.Status)
	require.Equal(t, "syntax error", httpErr.Body)
	require.Empty(t, out.String())
}

func TestRunPiped(t *testing.T) {
	server := startServer(t)
	cfg, err := loadConfig([]string{server.URL + "/sql"})
	require.NoError(t, err)
	out := &bytes.Buffer{}
	in := strings.NewReader("SELECT 1\nSELEC 1\n\naccept = text/csv\nSELECT 1\nquit\nSELECT 1\n")
	r := &runner{in: in, out: out}
	require.NoError(t, r.run(context.Background(), cfg))
	require.Equal(t, "[{\"column1\": 1}]\n400 Bad Request\nsyntax error\ntext/csv\ncolumn1\r\n1\n", out.String())
}
