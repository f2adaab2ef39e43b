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

package transfer

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pubfeed/order-export-server/internal/logging"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

const (
	defaultSFTPPort = "22"
	dialTimeout     = 30 * time.Second
)

// SFTPUploader uploads staged files over SFTP with user/password
// authentication.
type SFTPUploader struct {
	addr     string
	user     string
	password string
}

// NewSFTPUploader creates an SFTP uploader for the given credentials. The
// server may carry an explicit port; 22 is assumed otherwise.
func NewSFTPUploader(creds Credentials) *SFTPUploader {
	addr := creds.Server
	if !strings.Contains(addr, ":") {
		addr += ":" + defaultSFTPPort
	}
	return &SFTPUploader{
		addr:     addr,
		user:     creds.User,
		password: creds.Password,
	}
}

// Upload copies the local file to remotePath on the transfer server.
func (u *SFTPUploader) Upload(ctx context.Context, localPath, remotePath string) error {
	logger := logging.FromContext(ctx)

	clientConfig := &ssh.ClientConfig{
		User: u.user,
		Auth: []ssh.AuthMethod{
			ssh.Password(u.password),
		},
		// Host identity is trusted out of band before first use; this client
		// performs no host-key verification of its own.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         dialTimeout,
	}

	conn, err := ssh.Dial("tcp", u.addr, clientConfig)
	if err != nil {
		return &TransferError{Op: fmt.Sprintf("connecting to %s", u.addr), Err: err}
	}
	defer conn.Close()

	client, err := sftp.NewClient(conn)
	if err != nil {
		return &TransferError{Op: "starting sftp subsystem", Err: err}
	}
	defer client.Close()

	src, err := os.Open(localPath)
	if err != nil {
		return &TransferError{Op: fmt.Sprintf("opening staged file %s", localPath), Err: err}
	}
	defer src.Close()

	dst, err := client.Create(remotePath)
	if err != nil {
		return &TransferError{Op: fmt.Sprintf("creating remote file %s", remotePath), Err: err}
	}

	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return &TransferError{Op: fmt.Sprintf("writing remote file %s", remotePath), Err: err}
	}

	logger.Debugw("uploaded file", "destination", remotePath, "bytes", n)
	return nil
}
