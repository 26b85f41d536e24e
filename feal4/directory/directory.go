// Package directory maps party names to the addresses they listen on.
package directory

import (
	"errors"
	"net/netip"
)

var ErrNotFound = errors.New("directory: party not found")

// Entry is where a named party can be reached.
type Entry struct {
	Name string
	Addr netip.Addr
	Port uint16
}

// String returns the dialable host:port form.
func (e Entry) String() string {
	return netip.AddrPortFrom(e.Addr, e.Port).String()
}

// EntryFromAddr parses a host:port listener address.
func EntryFromAddr(name, addr string) (Entry, error) {
	ap, err := netip.ParseAddrPort(addr)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Name: name, Addr: ap.Addr(), Port: ap.Port()}, nil
}

// Resolver is a generic directory interface.
// Implementations can be backed by a static list, DNS, a shared store, etc.
type Resolver interface {
	Announce(e Entry) error
	Lookup(name string) (Entry, error)
	List() ([]Entry, error)
}
