// Package catalog holds the event bodies the sender draws from. The
// built-in set mimics the log traffic of a small office firewall.
package catalog

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
)

var defaultEntries = []string{
	"Teardown UDP connection for faddr 80.58.4.34/37074 gaddr 10.0.0.187/53 laddr 192.168.0.2/53",
	"192.168.0.2 Accessed URL 212.227.109.224:/scriptlib/ClientStdScripts.js",
	"Built outbound TCP connection 152083 for faddr 212.227.109.224/80 gaddr 10.0.0.187/56684 laddr 192.168.0.2/56684",
	"Teardown TCP connection 151957 faddr 212.227.109.224/80 gaddr 10.0.0.187/56613 laddr 192.168.0.2/56613 duration 0:04:56 bytes 11069 (TCP Reset-I)",
	"Deny TCP (no connection) from 192.168.0.2/2799 to 192.168.202.1/2244 flags SYN ACK on interface inside",
	"Built UDP connection for faddr 211.9.32.235/32770 gaddr 10.0.0.187/53 laddr 192.168.0.2/53",
	"Authen Session End: user '', sid 1, elapsed 313 seconds",
	`Deny icmp src outside:Some-Cisco dst inside:10.0.0.187 (type 3, code 1) by access-group "outside_access_in"`,
}

// A Catalog is an immutable, ordered list of event bodies. It is built
// once at startup and shared by reference with the event synthesizer.
type Catalog struct {
	entries []string
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{entries: defaultEntries}
}

// Load reads a custom catalog from a file containing a JSON array of
// strings.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog from %s: %w", path, err)
	}

	var entries []string
	err = json.Unmarshal(data, &entries)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog %s: %w", path, err)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog %s has no entries", path)
	}

	return &Catalog{entries: entries}, nil
}

// Len returns the number of entries in the catalog.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entry returns the body at position i.
func (c *Catalog) Entry(i int) string {
	return c.entries[i]
}

// Pick returns one entry chosen uniformly at random, with replacement.
func (c *Catalog) Pick(rng *rand.Rand) string {
	return c.entries[rng.Intn(len(c.entries))]
}
