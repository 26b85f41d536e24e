package feal4

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/TheusHen/feal4/feal4/config"
	"github.com/TheusHen/feal4/feal4/directory"
	"github.com/TheusHen/feal4/feal4/elgamal"
	"github.com/TheusHen/feal4/feal4/feal"
	"github.com/TheusHen/feal4/feal4/knapsack"
	"github.com/TheusHen/feal4/feal4/session"
	"github.com/TheusHen/feal4/feal4/transport/quic"
)

var ErrNotListening = errors.New("feal4: party is not listening")

// Party is one end of an exchange: it can receive messages on its listener and send
// messages to other parties. Its keys are generated once by NewParty.
type Party struct {
	Name string

	cfg      *config.Config
	log      *zap.Logger
	knapsack *knapsack.PrivateKey
	system   elgamal.System
	signer   *elgamal.KeyPair
	listener *quic.Listener
}

// NewParty generates a 64-bit knapsack key and an ElGamal system and key of
// cfg.ElGamalBits bits. A nil cfg uses config.Default; a nil logger discards output.
func NewParty(name string, cfg *config.Config, log *zap.Logger) (*Party, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	ks, err := knapsack.GenerateKey(feal.KeySize * 8)
	if err != nil {
		return nil, fmt.Errorf("feal4: knapsack key: %w", err)
	}
	sys, err := elgamal.GenerateSystem(cfg.ElGamalBits)
	if err != nil {
		return nil, fmt.Errorf("feal4: elgamal system: %w", err)
	}
	signer, err := elgamal.GenerateKey(sys)
	if err != nil {
		return nil, fmt.Errorf("feal4: elgamal key: %w", err)
	}

	return &Party{
		Name:     name,
		cfg:      cfg,
		log:      log.With(zap.String("party", name)),
		knapsack: ks,
		system:   sys,
		signer:   signer,
	}, nil
}

// Listen starts accepting connections on addr, or on the configured address when addr is empty.
func (p *Party) Listen(addr string) error {
	if addr == "" {
		addr = p.cfg.ListenAddr
	}
	ln, err := quic.Listen(addr)
	if err != nil {
		return err
	}
	p.listener = ln
	p.log.Info("listening", zap.String("addr", ln.AddrString()))
	return nil
}

func (p *Party) Close() error {
	if p.listener == nil {
		return nil
	}
	return p.listener.Close()
}

func (p *Party) ListenAddr() string {
	if p.listener == nil {
		return ""
	}
	return p.listener.AddrString()
}

// Entry describes where this party listens, for announcing to a directory.
func (p *Party) Entry() (directory.Entry, error) {
	if p.listener == nil {
		return directory.Entry{}, ErrNotListening
	}
	return directory.EntryFromAddr(p.Name, p.listener.AddrString())
}

// Receive accepts one connection and returns the message delivered on it.
func (p *Party) Receive(ctx context.Context) (session.Message, error) {
	if p.listener == nil {
		return session.Message{}, ErrNotListening
	}
	conn, err := p.listener.Accept(ctx)
	if err != nil {
		return session.Message{}, err
	}
	defer conn.CloseWithError(0, "")

	msg, err := session.Receive(ctx, conn, p.Name, p.knapsack, p.log)
	if err != nil {
		p.log.Warn("receive failed", zap.String("remote", conn.RemoteAddr().String()), zap.Error(err))
		return session.Message{}, err
	}
	p.log.Info("message received", zap.String("sender", msg.Sender), zap.Int("bytes", len(msg.Plaintext)))
	return msg, nil
}

// Send dials addr and delivers msg to the party listening there.
func (p *Party) Send(ctx context.Context, addr string, msg []byte) error {
	conn, err := quic.Dial(ctx, addr)
	if err != nil {
		return err
	}
	defer conn.CloseWithError(0, "")

	opts := session.SealOptions{
		Sender:       p.Name,
		SegmentBits:  p.cfg.SegmentBits,
		Compress:     p.cfg.Compress,
		DataShards:   p.cfg.DataShards,
		ParityShards: p.cfg.ParityShards,
		System:       p.system,
		Signer:       p.signer,
	}
	if err := session.Send(ctx, conn, msg, opts, p.log); err != nil {
		p.log.Warn("send failed", zap.String("addr", addr), zap.Error(err))
		return err
	}
	p.log.Info("message sent", zap.String("addr", addr), zap.Int("bytes", len(msg)))
	return nil
}

// SendTo looks name up in r and sends msg to it.
func (p *Party) SendTo(ctx context.Context, r directory.Resolver, name string, msg []byte) error {
	e, err := r.Lookup(name)
	if err != nil {
		return err
	}
	return p.Send(ctx, e.String(), msg)
}
