// Copyright 2025 Florian Zenker (flo@znkr.io)
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

// Package git provides a simplified git interface for reading changed files from the history of
// a repository.
package git

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

// nullID is the blob ID git reports for the missing side of an added or deleted file.
const nullID = "0000000000000000000000000000000000000000"

type Repo struct {
	dir    string
	gitcat chan<- catRequest
	done   chan struct{}
}

// Open opens the repository in dir. The repository must be closed after use.
func Open(dir string) (*Repo, error) {
	if _, err := git("-C", dir, "rev-parse", "--git-dir"); err != nil {
		return nil, err
	}

	gitcat, done, err := catter(dir)
	if err != nil {
		return nil, err
	}

	return &Repo{
		dir:    dir,
		gitcat: gitcat,
		done:   done,
	}, nil
}

// Close waits for all pending reads and stops the background git process.
func (r *Repo) Close() {
	close(r.gitcat)
	<-r.done
}

// RevList returns the IDs of all non-merge commits reachable from HEAD.
func (r *Repo) RevList() ([]string, error) {
	out, err := git("-C", r.dir, "rev-list", "--no-merges", "HEAD")
	if err != nil {
		return nil, err
	}
	return strings.Fields(out), nil
}

type FileDiff struct {
	Name  string
	OldID string
	NewID string
}

// DiffTree returns the files changed by commit whose name ends in one of the extensions in exts.
func (r *Repo) DiffTree(commit string, exts []string) ([]FileDiff, error) {
	out, err := git("-C", r.dir, "diff-tree", "-r", commit)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(out, "\n")[1:]
	var ret []FileDiff
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		if line[0] != ':' {
			return nil, fmt.Errorf("diff-tree file not starting with ':': %q", line)
		}
		fields := strings.Fields(line[1:])
		if len(fields) < 6 {
			return nil, fmt.Errorf("diff-tree line with %d fields: %q", len(fields), line)
		}
		name := fields[5]
		if !hasExt(name, exts) {
			continue
		}
		ret = append(ret, FileDiff{
			Name:  name,
			OldID: fields[2],
			NewID: fields[3],
		})
	}
	return ret, nil
}

func hasExt(name string, exts []string) bool {
	name = strings.ToLower(name)
	for _, ext := range exts {
		if ext != "" && strings.HasSuffix(name, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// Read reads the contents of the blobs in blobIDs and calls cb with them in the same order. The
// contents of the null ID are empty. Reads are batched, cb is called from a background goroutine.
func (r *Repo) Read(blobIDs []string, cb func([]string)) {
	r.gitcat <- catRequest{blobIDs, cb}
}

func git(args ...string) (string, error) {
	var wout, werr strings.Builder
	cmd := exec.Command("git", args...)
	cmd.Stdout = &wout
	cmd.Stderr = &werr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running git command %v: %w\n%s", cmd, err, werr.String())
	}
	return wout.String(), nil
}

type catRequest struct {
	blobIDs []string
	cb      func([]string)
}

// catter starts a git cat-file process and returns a channel to send requests to it. The done
// channel is closed after the request channel is closed and all requests were answered.
func catter(repo string) (chan<- catRequest, chan struct{}, error) {
	wc := make(chan catRequest)
	rc := make(chan []catRequest, runtime.GOMAXPROCS(0))
	done := make(chan struct{})

	cmd := exec.Command("git", "-C", repo, "cat-file", "--batch-command", "--buffer")
	in, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("connecting stdin: %w", err)
	}
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("connecting stdout: %w", err)
	}
	var werr bytes.Buffer
	cmd.Stderr = &werr
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("starting git cat-file: %w", err)
	}

	r, w := bufio.NewReader(out), in
	go func() {
		defer close(rc)
		defer w.Close()
		const N = 32
		for {
			bundle := make([]catRequest, 0, N)
		Write:
			for range N {
				select {
				case req, ok := <-wc:
					if !ok {
						rc <- bundle
						fmt.Fprintf(w, "flush\n")
						return
					}
					for _, id := range req.blobIDs {
						if id == nullID {
							continue
						}
						if _, err := fmt.Fprintf(w, "contents %s\n", id); err != nil {
							panic(fmt.Sprintf("writing to stdin pipe: %v\n%s", err, werr.String()))
						}
					}
					bundle = append(bundle, req)
				default:
					break Write
				}
			}

			if _, err := fmt.Fprintf(w, "flush\n"); err != nil {
				panic(fmt.Sprintf("writing to stdin pipe: %v\n%s", err, werr.String()))
			}
			rc <- bundle
		}
	}()

	go func() {
		defer close(done)
		for bundle := range rc {
			for _, req := range bundle {
				out := make([]string, len(req.blobIDs))
				for i, id := range req.blobIDs {
					if id == nullID {
						continue
					}
					contents, err := readObject(r, id)
					if err != nil {
						panic(err)
					}
					out[i] = contents
				}
				req.cb(out)
			}
		}
		cmd.Wait()
	}()

	return wc, done, nil
}

// readObject reads a single object in the output format of git cat-file --batch.
func readObject(r *bufio.Reader, id string) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading object header: %w", err)
	}
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return "", fmt.Errorf("found %v fields, expected 3: %q", len(fields), line)
	}
	if fields[0] != id {
		return "", fmt.Errorf("ids don't match %s vs %s", fields[0], id)
	}
	n, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return "", fmt.Errorf("parsing object size: %w", err)
	}
	buf := make([]byte, n+1)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("reading object %s: %w", id, err)
	}
	return string(buf[:n]), nil
}
