package quic

import (
	"context"
	"io"
	"testing"
	"time"
)

func TestDialAccept(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ln, err := Listen("[::1]:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	errCh := make(chan error, 1)
	got := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept(ctx)
		if err != nil {
			errCh <- err
			return
		}
		st, err := conn.AcceptStream(ctx)
		if err != nil {
			errCh <- err
			return
		}
		b, err := io.ReadAll(st)
		if err != nil {
			errCh <- err
			return
		}
		got <- b
		errCh <- nil
	}()

	conn, err := Dial(ctx, ln.AddrString())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.CloseWithError(0, "")
	if proto := conn.ConnectionState().TLS.NegotiatedProtocol; proto != ALPN {
		t.Fatalf("unexpected ALPN %q", proto)
	}

	st, err := conn.OpenStreamSync(ctx)
	if err != nil {
		t.Fatalf("OpenStreamSync: %v", err)
	}
	if _, err := st.Write([]byte("ping")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	_ = st.Close()

	if err := <-errCh; err != nil {
		t.Fatalf("server: %v", err)
	}
	if b := <-got; string(b) != "ping" {
		t.Fatalf("unexpected payload %q", b)
	}
}
