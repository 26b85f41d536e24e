package memory

import (
	"errors"
	"net/netip"
	"testing"

	"github.com/TheusHen/feal4/feal4/directory"
)

func TestStoreAnnounceLookupList(t *testing.T) {
	s := New()
	bob := directory.Entry{Name: "bob", Addr: netip.MustParseAddr("::1"), Port: 9000}
	alice := directory.Entry{Name: "alice", Addr: netip.MustParseAddr("::1"), Port: 9001}

	if err := s.Announce(bob); err != nil {
		t.Fatalf("Announce: %v", err)
	}
	if err := s.Announce(alice); err != nil {
		t.Fatalf("Announce: %v", err)
	}

	got, err := s.Lookup("bob")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got != bob {
		t.Fatalf("unexpected entry %+v", got)
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Name != "alice" || list[1].Name != "bob" {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestStoreReplace(t *testing.T) {
	s := New()
	_ = s.Announce(directory.Entry{Name: "bob", Addr: netip.MustParseAddr("::1"), Port: 1})
	_ = s.Announce(directory.Entry{Name: "bob", Addr: netip.MustParseAddr("::1"), Port: 2})
	got, _ := s.Lookup("bob")
	if got.Port != 2 {
		t.Fatalf("expected replaced entry, got port %d", got.Port)
	}
}

func TestStoreNotFound(t *testing.T) {
	s := New()
	if _, err := s.Lookup("carol"); !errors.Is(err, directory.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Announce(directory.Entry{}); err == nil {
		t.Fatalf("expected error for unnamed entry")
	}
}

var _ directory.Resolver = (*Store)(nil)
