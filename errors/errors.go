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

package errors

import (
	"fmt"
	"net"
	"net/http"
	"net/url"

	pkgerrors "github.com/pkg/errors"
)

type ErrorCode int

const (
	HTTPStatusError ErrorCode = iota + 1000
	ConnectionError
	DecodeError
	InvalidConfiguration ErrorCode = iota + 3000
)

func New(msg string) error {
	return pkgerrors.New(msg)
}

func Errorf(format string, args ...interface{}) error {
	return pkgerrors.Errorf(format, args...)
}

func WithStack(err error) error {
	return pkgerrors.WithStack(err)
}

func Wrap(err error, msg string) error {
	return pkgerrors.Wrap(err, msg)
}

func As(err error, target any) bool {
	return pkgerrors.As(err, target)
}

func Is(err error, target error) bool {
	return pkgerrors.Is(err, target)
}

func NewInvalidConfigurationError(msg string) EndbError {
	return NewEndbErrorf(InvalidConfiguration, "invalid configuration: %s", msg)
}

func NewEndbErrorf(errorCode ErrorCode, msgFormat string, args ...interface{}) EndbError {
	return EndbError{Code: errorCode, Msg: fmt.Sprintf(msgFormat, args...)}
}

type EndbError struct {
	Code ErrorCode
	Msg  string
}

func (e EndbError) Error() string {
	return e.Msg
}

// HTTPError is returned when the server answers with a non-2xx status.
type HTTPError struct {
	Status int
	Reason string
	Body   string
}

func NewHTTPError(status int, reason string, body string) *HTTPError {
	if reason == "" {
		reason = http.StatusText(status)
	}
	return &HTTPError{Status: status, Reason: reason, Body: body}
}

func (h *HTTPError) Code() ErrorCode {
	return HTTPStatusError
}

func (h *HTTPError) Error() string {
	if h.Body == "" {
		return fmt.Sprintf("%d %s", h.Status, h.Reason)
	}
	return fmt.Sprintf("%d %s: %s", h.Status, h.Reason, h.Body)
}

// TransportError is returned when the endpoint could not be reached or no response was received.
type TransportError struct {
	Endpoint string
	Reason   string
	Err      error
}

func NewTransportError(endpoint string, err error) *TransportError {
	return &TransportError{Endpoint: endpoint, Reason: transportReason(err), Err: err}
}

func (t *TransportError) Code() ErrorCode {
	return ConnectionError
}

func (t *TransportError) Error() string {
	return fmt.Sprintf("%s: %s", t.Endpoint, t.Reason)
}

func (t *TransportError) Unwrap() error {
	return t.Err
}

func transportReason(err error) string {
	if err == nil {
		return "unknown error"
	}
	var netErr *net.OpError
	if As(err, &netErr) && netErr != nil {
		return netErr.Err.Error()
	}
	var urlErr *url.Error
	if As(err, &urlErr) && urlErr != nil {
		return urlErr.Err.Error()
	}
	return err.Error()
}

// IsCode returns true if err, or an error it wraps, carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var endbErr EndbError
	if As(err, &endbErr) {
		return endbErr.Code == code
	}
	var httpErr *HTTPError
	if As(err, &httpErr) {
		return httpErr.Code() == code
	}
	var transportErr *TransportError
	if As(err, &transportErr) {
		return transportErr.Code() == code
	}
	return false
}
