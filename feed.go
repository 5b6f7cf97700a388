package main

import (
	"errors"
	"fmt"

	"github.com/nxadm/tail"
	log "github.com/sirupsen/logrus"
)

// ErrFeedClosed is returned once the tailed feed file stops yielding
// lines, which ends the send loop cleanly.
var ErrFeedClosed = errors.New("event feed closed")

// A FileFeed follows a file and hands out its lines as event bodies.
// Emission pace in feed mode is the pace of the file's growth.
type FileFeed struct {
	Filename string

	tailed *tail.Tail
}

// NewFileFeed opens a follow-and-reopen tail on the given file, so log
// rotation underneath us doesn't end the feed.
func NewFileFeed(filename string) (*FileFeed, error) {
	tailed, err := tail.TailFile(filename, tail.Config{
		ReOpen: true, Follow: true, Logger: log.StandardLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to tail feed file %s: %w", filename, err)
	}

	return &FileFeed{Filename: filename, tailed: tailed}, nil
}

// Next blocks until the next line is available.
func (f *FileFeed) Next() (string, error) {
	line, ok := <-f.tailed.Lines
	if !ok {
		return "", ErrFeedClosed
	}

	if line.Err != nil {
		return "", fmt.Errorf("feed read failed: %w", line.Err)
	}

	return line.Text, nil
}

// Stop ends the tail and releases its file watches.
func (f *FileFeed) Stop() {
	err := f.tailed.Stop()
	if err != nil {
		log.Errorf("Failed to stop feed on %s: %s", f.Filename, err)
	}
	f.tailed.Cleanup()
}
