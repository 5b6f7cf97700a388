package main

import (
	"math/rand"

	"github.com/maluscro/csender/catalog"
)

// Wire framing shared by every event. The header is fixed apart from
// the timestamp: priority tag, timestamp, then originator and app tag.
const (
	eventPriority     = "<13>"
	eventHeaderSuffix = " localhost.localdomain my.app: "

	eventHeaderLen = len(eventPriority) + timestampLen + len(eventHeaderSuffix)

	// maxEventLength caps every produced message. minEventLength leaves
	// room for at least one body byte plus the trailing newline.
	maxEventLength = 1024
	minEventLength = eventHeaderLen + 2

	// Total lengths drawn in random-length mode.
	randomLengthMin = 100
	randomLengthMax = 225
)

// BodyMode selects how event bodies are produced.
type BodyMode int

const (
	// BodyCatalog sends one randomly chosen catalog entry per event.
	BodyCatalog BodyMode = iota
	// BodyRandomLength pads each event to a random total length.
	BodyRandomLength
	// BodyFixedLength pads each event to one configured total length.
	BodyFixedLength
	// BodyFileFeed replays lines tailed from a file.
	BodyFileFeed
)

// A Synthesizer builds wire-ready events for the send loop. The internal
// buffer is reused, so a returned event is only valid until the next
// Synthesize call.
type Synthesizer struct {
	catalog *catalog.Catalog
	mode    BodyMode
	length  int
	feed    *FileFeed
	rng     *rand.Rand

	buf []byte
}

// NewSynthesizer returns a Synthesizer for the given body mode. The
// length is only read in fixed-length mode and the feed only in file
// feed mode.
func NewSynthesizer(cat *catalog.Catalog, mode BodyMode, length int, feed *FileFeed, rng *rand.Rand) *Synthesizer {
	return &Synthesizer{
		catalog: cat,
		mode:    mode,
		length:  length,
		feed:    feed,
		rng:     rng,
		buf:     make([]byte, 0, maxEventLength),
	}
}

// Synthesize builds one newline-terminated event carrying the given
// timestamp in its header.
func (s *Synthesizer) Synthesize(timestamp string) ([]byte, error) {
	s.buf = s.buf[:0]
	s.buf = append(s.buf, eventPriority...)
	s.buf = append(s.buf, timestamp...)
	s.buf = append(s.buf, eventHeaderSuffix...)

	switch s.mode {
	case BodyCatalog:
		s.buf = append(s.buf, s.catalog.Pick(s.rng)...)
	case BodyRandomLength:
		total := randomLengthMin + s.rng.Intn(randomLengthMax-randomLengthMin+1)
		s.appendLetterBody(total - len(s.buf) - 1)
	case BodyFixedLength:
		s.appendCatalogBody(s.length - len(s.buf) - 1)
	case BodyFileFeed:
		line, err := s.feed.Next()
		if err != nil {
			return nil, err
		}
		if room := maxEventLength - len(s.buf) - 1; len(line) > room {
			line = line[:room]
		}
		s.buf = append(s.buf, line...)
	}

	s.buf = append(s.buf, '\n')

	return s.buf, nil
}

// appendCatalogBody concatenates random catalog entries, truncating the
// last one so the body comes out at exactly size bytes.
func (s *Synthesizer) appendCatalogBody(size int) {
	written := 0
	for written < size {
		entry := s.catalog.Pick(s.rng)
		if room := size - written; len(entry) >= room {
			s.buf = append(s.buf, entry[:room]...)
			written = size
		} else {
			s.buf = append(s.buf, entry...)
			written += len(entry)
		}
	}
}

// appendLetterBody fills the body with size copies of one random
// uppercase letter.
func (s *Synthesizer) appendLetterBody(size int) {
	letter := byte('A' + s.rng.Intn(26))
	for i := 0; i < size; i++ {
		s.buf = append(s.buf, letter)
	}
}
