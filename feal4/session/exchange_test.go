package session

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/TheusHen/feal4/feal4/protocol"
	"github.com/TheusHen/feal4/feal4/transport/quic"
)

func TestSendReceive(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fx := newFixture(t)
	fx.opts.SegmentBits = 8
	fx.opts.Compress = true
	log := zaptest.NewLogger(t)

	ln, err := quic.Listen("[::1]:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	type result struct {
		msg Message
		err error
	}
	resCh := make(chan result, 1)
	go func() {
		conn, err := ln.Accept(ctx)
		if err != nil {
			resCh <- result{err: err}
			return
		}
		msg, err := Receive(ctx, conn, "bob", fx.priv, log.Named("bob"))
		resCh <- result{msg: msg, err: err}
	}()

	conn, err := quic.Dial(ctx, ln.AddrString())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.CloseWithError(0, "")

	plaintext := []byte("Hello Bob, this message crossed QUIC in FEAL-4 CFB mode.")
	if err := Send(ctx, conn, plaintext, fx.opts, log.Named("alice")); err != nil {
		t.Fatalf("Send: %v", err)
	}

	res := <-resCh
	if res.err != nil {
		t.Fatalf("Receive: %v", res.err)
	}
	if res.msg.Sender != "alice" {
		t.Fatalf("unexpected sender %q", res.msg.Sender)
	}
	if !bytes.Equal(res.msg.Plaintext, plaintext) {
		t.Fatalf("want %q got %q", plaintext, res.msg.Plaintext)
	}
}

func TestSendRejected(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fx := newFixture(t)

	ln, err := quic.Listen("[::1]:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	errCh := make(chan error, 1)
	go func() {
		conn, err := ln.Accept(ctx)
		if err != nil {
			errCh <- err
			return
		}
		st, err := conn.OpenStreamSync(ctx)
		if err != nil {
			errCh <- err
			return
		}
		b, _ := protocol.EncodeKeyOffer(fx.offer)
		if err := protocol.WriteFrame(st, protocol.Frame{Type: protocol.MessageTypeKeyOffer, Payload: b}); err != nil {
			errCh <- err
			return
		}
		if _, err := expect(st, protocol.MessageTypeEnvelope); err != nil {
			errCh <- err
			return
		}
		b, _ = protocol.EncodeAck(protocol.Ack{Error: "not today"})
		errCh <- protocol.WriteFrame(st, protocol.Frame{Type: protocol.MessageTypeAck, Payload: b})
	}()

	conn, err := quic.Dial(ctx, ln.AddrString())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.CloseWithError(0, "")

	err = Send(ctx, conn, []byte("unwanted"), fx.opts, nil)
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("server: %v", err)
	}
}
