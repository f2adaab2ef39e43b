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

// Package serverenv defines common parameters for the server environment.
package serverenv

import (
	"context"

	"github.com/pubfeed/order-export-server/internal/database"
	"github.com/pubfeed/order-export-server/internal/reporter"
	"github.com/pubfeed/order-export-server/internal/transfer"
)

// ServerEnv represents latent environment configuration for this application.
type ServerEnv struct {
	database *database.DB
	uploader transfer.Uploader
	mailer   reporter.Mailer
}

// Option defines function types to modify the ServerEnv on creation.
type Option func(*ServerEnv) *ServerEnv

// New creates a new ServerEnv with the requested options.
func New(ctx context.Context, opts ...Option) *ServerEnv {
	env := &ServerEnv{}
	for _, f := range opts {
		env = f(env)
	}
	return env
}

// WithDatabase attaches a database to the environment.
func WithDatabase(db *database.DB) Option {
	return func(s *ServerEnv) *ServerEnv {
		s.database = db
		return s
	}
}

// WithUploader attaches an uploader to the environment.
func WithUploader(u transfer.Uploader) Option {
	return func(s *ServerEnv) *ServerEnv {
		s.uploader = u
		return s
	}
}

// WithMailer attaches a mailer to the environment.
func WithMailer(m reporter.Mailer) Option {
	return func(s *ServerEnv) *ServerEnv {
		s.mailer = m
		return s
	}
}

// Database returns the attached database, or nil.
func (s *ServerEnv) Database() *database.DB {
	return s.database
}

// Uploader returns the attached uploader, or nil.
func (s *ServerEnv) Uploader() transfer.Uploader {
	return s.uploader
}

// Mailer returns the attached mailer, or nil.
func (s *ServerEnv) Mailer() reporter.Mailer {
	return s.mailer
}

// Close shuts down the server env, closing the database connection if one
// was attached.
func (s *ServerEnv) Close(ctx context.Context) error {
	if s == nil {
		return nil
	}
	if s.database != nil {
		s.database.Close(ctx)
	}
	return nil
}
