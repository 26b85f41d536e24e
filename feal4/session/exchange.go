package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	q "github.com/quic-go/quic-go"
	"go.uber.org/zap"

	"github.com/TheusHen/feal4/feal4/knapsack"
	"github.com/TheusHen/feal4/feal4/protocol"
)

var (
	ErrUnexpectedFrame = errors.New("session: unexpected frame")
	ErrRejected        = errors.New("session: envelope rejected by receiver")
)

// Message is a plaintext delivered by Receive.
type Message struct {
	Sender    string
	Plaintext []byte
}

// bindContext makes blocking stream I/O return once ctx is done.
func bindContext(ctx context.Context, st q.Stream) (stop func() bool) {
	if dl, ok := ctx.Deadline(); ok {
		_ = st.SetDeadline(dl)
	}
	return context.AfterFunc(ctx, func() {
		st.CancelRead(0)
		st.CancelWrite(0)
	})
}

func expect(st io.Reader, want protocol.MessageType) ([]byte, error) {
	f, err := protocol.ReadFrame(st)
	if err != nil {
		return nil, err
	}
	if f.Type != want {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrUnexpectedFrame, f.Type, want)
	}
	return f.Payload, nil
}

// Send delivers plaintext over conn. The receiver opens the stream and offers its
// knapsack key; Send answers with a sealed envelope and waits for the ACK.
func Send(ctx context.Context, conn q.Connection, plaintext []byte, opts SealOptions, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	st, err := conn.AcceptStream(ctx)
	if err != nil {
		return err
	}
	defer bindContext(ctx, st)()
	defer st.Close()

	payload, err := expect(st, protocol.MessageTypeKeyOffer)
	if err != nil {
		return err
	}
	offer, err := protocol.DecodeKeyOffer(payload)
	if err != nil {
		return err
	}
	log = log.With(zap.String("receiver", offer.Name))

	env, err := Seal(plaintext, offer, opts)
	if err != nil {
		return err
	}
	b, err := protocol.EncodeEnvelope(env)
	if err != nil {
		return err
	}
	if err := protocol.WriteFrame(st, protocol.Frame{Type: protocol.MessageTypeEnvelope, Payload: b}); err != nil {
		return err
	}
	log.Debug("envelope sent",
		zap.Int("length", env.Length),
		zap.Int("segment_bits", env.SegmentBits),
		zap.Bool("compressed", env.Compressed),
		zap.Int("shards", len(env.Shards)))

	payload, err = expect(st, protocol.MessageTypeAck)
	if err != nil {
		return err
	}
	ack, err := protocol.DecodeAck(payload)
	if err != nil {
		return err
	}
	if !ack.OK {
		log.Warn("envelope rejected", zap.String("reason", ack.Error))
		return fmt.Errorf("%w: %s", ErrRejected, ack.Error)
	}
	return protocol.WriteFrame(st, protocol.Frame{Type: protocol.MessageTypeClose})
}

// Receive opens a stream on conn, offers name's knapsack public key and opens the
// envelope that comes back. The sender is told the outcome with an ACK.
func Receive(ctx context.Context, conn q.Connection, name string, priv *knapsack.PrivateKey, log *zap.Logger) (Message, error) {
	if log == nil {
		log = zap.NewNop()
	}
	st, err := conn.OpenStreamSync(ctx)
	if err != nil {
		return Message{}, err
	}
	defer bindContext(ctx, st)()
	defer st.Close()

	b, err := protocol.EncodeKeyOffer(protocol.KeyOffer{Name: name, KnapsackPublic: priv.Public()})
	if err != nil {
		return Message{}, err
	}
	if err := protocol.WriteFrame(st, protocol.Frame{Type: protocol.MessageTypeKeyOffer, Payload: b}); err != nil {
		return Message{}, err
	}

	payload, err := expect(st, protocol.MessageTypeEnvelope)
	if err != nil {
		return Message{}, err
	}
	env, err := protocol.DecodeEnvelope(payload)
	if err != nil {
		return Message{}, err
	}
	log = log.With(zap.String("sender", env.Sender))

	plaintext, openErr := Open(env, priv)
	ack := protocol.Ack{OK: openErr == nil}
	if openErr != nil {
		ack.Error = openErr.Error()
	}
	if b, err = protocol.EncodeAck(ack); err != nil {
		return Message{}, err
	}
	if err := protocol.WriteFrame(st, protocol.Frame{Type: protocol.MessageTypeAck, Payload: b}); err != nil {
		return Message{}, err
	}
	if openErr != nil {
		log.Warn("envelope rejected", zap.Error(openErr))
		return Message{}, openErr
	}

	if _, err := expect(st, protocol.MessageTypeClose); err != nil && !errors.Is(err, io.EOF) {
		log.Debug("sender did not close cleanly", zap.Error(err))
	}
	log.Debug("envelope opened", zap.Int("bytes", len(plaintext)))
	return Message{Sender: env.Sender, Plaintext: plaintext}, nil
}
