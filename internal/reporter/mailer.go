// Copyright 2021 the Order Export Server authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reporter

import (
	"fmt"
	"net"
	"strconv"
	"sync"

	gomail "gopkg.in/gomail.v2"
)

const defaultSMTPPort = 25

// Mailer delivers one plain-text message.
type Mailer interface {
	Send(to, from, subject, body string) error
}

// SMTPMailer delivers mail through an SMTP relay.
type SMTPMailer struct {
	host string
	port int
}

// NewSMTPMailer creates a mailer for the given server address. The address
// may carry an explicit port; 25 is assumed otherwise.
func NewSMTPMailer(server string) *SMTPMailer {
	host, portStr, err := net.SplitHostPort(server)
	if err != nil {
		return &SMTPMailer{host: server, port: defaultSMTPPort}
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = defaultSMTPPort
	}
	return &SMTPMailer{host: host, port: port}
}

// Send delivers the message through the relay. The relay is assumed to accept
// mail from this host without authentication.
func (m *SMTPMailer) Send(to, from, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.host, m.port, "", "")
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending mail via %s:%d: %w", m.host, m.port, err)
	}
	return nil
}

// Message is one delivered mail, recorded by MemoryMailer.
type Message struct {
	To      string
	From    string
	Subject string
	Body    string
}

// MemoryMailer records messages in memory. Meant for testing.
type MemoryMailer struct {
	mu       sync.Mutex
	messages []Message
	failErr  error
}

// NewMemoryMailer creates a new in-memory mailer.
func NewMemoryMailer() *MemoryMailer {
	return &MemoryMailer{}
}

// FailWith makes every subsequent Send fail with err.
func (m *MemoryMailer) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

// Send records the message.
func (m *MemoryMailer) Send(to, from, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.messages = append(m.messages, Message{To: to, From: from, Subject: subject, Body: body})
	return nil
}

// Messages returns the recorded messages.
func (m *MemoryMailer) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// NoopMailer accepts and discards every message.
type NoopMailer struct{}

// NewNoopMailer creates a new noop mailer.
func NewNoopMailer() *NoopMailer {
	return &NoopMailer{}
}

// Send does nothing.
func (m *NoopMailer) Send(to, from, subject, body string) error {
	return nil
}
