package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/TheusHen/feal4/feal4"
	"github.com/TheusHen/feal4/feal4/cfb"
	"github.com/TheusHen/feal4/feal4/config"
	"github.com/TheusHen/feal4/feal4/directory/memory"
	"github.com/TheusHen/feal4/feal4/feal"
	"github.com/TheusHen/feal4/feal4/kdf"
	"github.com/TheusHen/feal4/feal4/session"
)

var errNoKey = errors.New("either --key and --iv or --passphrase is required")

var keyFlags = []cli.Flag{
	&cli.StringFlag{Name: "key", Usage: "16 hex digits"},
	&cli.StringFlag{Name: "iv", Usage: "16 hex digits"},
	&cli.StringFlag{Name: "passphrase", Usage: "derive key and IV with HKDF-SHA256"},
	&cli.StringFlag{Name: "salt", Usage: "HKDF salt used with --passphrase"},
}

var ioFlags = []cli.Flag{
	&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Usage: "input file (default stdin)"},
	&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (default stdout)"},
	&cli.IntFlag{Name: "segment-bits", Aliases: []string{"s"}, Usage: "CFB segment size in bits (overrides config)"},
}

// newApp builds the CLI. A nil logger is built from --verbose once global flags are parsed.
func newApp(logger *zap.Logger, stdin io.Reader, stdout io.Writer) *cli.App {
	return &cli.App{
		Name:      "feal4",
		Usage:     "FEAL-4 in CFB mode, with a knapsack/ElGamal key exchange demo",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "config file (FEAL4_* environment variables override it)"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "development logging"},
		},
		Before: func(c *cli.Context) error {
			if logger == nil {
				logger = buildLogger(c.Bool("verbose"))
			}
			return nil
		},
		After: func(c *cli.Context) error {
			if logger != nil {
				_ = logger.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "keygen",
				Usage:  "Print a FEAL key and IV, random or derived from a passphrase",
				Flags:  keyFlags[2:],
				Action: keygen,
			},
			{
				Name:  "encrypt",
				Usage: "Encrypt a stream with FEAL-4 CFB",
				Flags: append(append([]cli.Flag{}, keyFlags...), ioFlags...),
				Action: func(c *cli.Context) error {
					return crypt(c, logger, cfb.NewEncrypter, true)
				},
			},
			{
				Name:  "decrypt",
				Usage: "Decrypt a stream with FEAL-4 CFB",
				Flags: append(append([]cli.Flag{}, keyFlags...), ioFlags...),
				Action: func(c *cli.Context) error {
					return crypt(c, logger, cfb.NewDecrypter, false)
				},
			},
			{
				Name:  "demo",
				Usage: "Run Alice and Bob through a full exchange over QUIC on localhost",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Usage: "message to send (default: read one line from stdin)"},
					&cli.DurationFlag{Name: "timeout", Value: 10 * time.Second},
				},
				Action: func(c *cli.Context) error {
					return demo(c, logger)
				},
			},
		},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("segment-bits") {
		cfg.SegmentBits = c.Int("segment-bits")
	}
	return cfg, cfg.Validate()
}

func parseHex8(name, s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	if len(b) != feal.KeySize {
		return nil, fmt.Errorf("--%s: want %d bytes, got %d", name, feal.KeySize, len(b))
	}
	return b, nil
}

func keyMaterial(c *cli.Context) (key, iv []byte, err error) {
	if p := c.String("passphrase"); p != "" {
		return kdf.DeriveKeyIV([]byte(p), []byte(c.String("salt")))
	}
	if !c.IsSet("key") || !c.IsSet("iv") {
		return nil, nil, errNoKey
	}
	if key, err = parseHex8("key", c.String("key")); err != nil {
		return nil, nil, err
	}
	if iv, err = parseHex8("iv", c.String("iv")); err != nil {
		return nil, nil, err
	}
	return key, iv, nil
}

func keygen(c *cli.Context) error {
	var key, iv []byte
	if p := c.String("passphrase"); p != "" {
		var err error
		if key, iv, err = kdf.DeriveKeyIV([]byte(p), []byte(c.String("salt"))); err != nil {
			return err
		}
	} else {
		b := make([]byte, feal.KeySize+feal.BlockSize)
		if _, err := rand.Read(b); err != nil {
			return err
		}
		key, iv = b[:feal.KeySize], b[feal.KeySize:]
	}
	fmt.Fprintf(c.App.Writer, "key=%x\niv=%x\n", key, iv)
	return nil
}

func openIO(c *cli.Context) (io.Reader, io.WriteCloser, func(), error) {
	var (
		r       io.Reader = c.App.Reader
		w       io.WriteCloser
		closers []io.Closer
	)
	if p := c.String("in"); p != "" {
		f, err := os.Open(p)
		if err != nil {
			return nil, nil, nil, err
		}
		r = f
		closers = append(closers, f)
	}
	if p := c.String("out"); p != "" {
		f, err := os.Create(p)
		if err != nil {
			for _, cl := range closers {
				cl.Close()
			}
			return nil, nil, nil, err
		}
		w = f
	} else {
		w = nopCloser{c.App.Writer}
	}
	return r, w, func() {
		for _, cl := range closers {
			cl.Close()
		}
	}, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func crypt(c *cli.Context, logger *zap.Logger, newStream func(key, iv []byte, segmentBits int) (*cfb.Stream, error), encrypt bool) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	key, iv, err := keyMaterial(c)
	if err != nil {
		return err
	}
	s, err := newStream(key, iv, cfg.SegmentBits)
	if err != nil {
		return err
	}
	r, w, done, err := openIO(c)
	if err != nil {
		return err
	}
	defer done()

	var n int64
	if encrypt {
		cw := cfb.NewWriter(w, s)
		if n, err = io.Copy(cw, r); err != nil {
			cw.Close()
			return err
		}
		err = cw.Close()
	} else {
		if n, err = io.Copy(w, cfb.NewReader(r, s)); err != nil {
			w.Close()
			return err
		}
		err = w.Close()
	}
	logger.Debug("stream processed",
		zap.String("command", c.Command.Name),
		zap.Int("segment_bits", cfg.SegmentBits),
		zap.Int64("bytes", n))
	return err
}

func demo(c *cli.Context, logger *zap.Logger) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	msg := c.String("message")
	if msg == "" {
		fmt.Fprint(c.App.Writer, "Enter the message to encrypt: ")
		line, err := bufio.NewReader(c.App.Reader).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		msg = strings.TrimRight(line, "\r\n")
	}

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()
	out := c.App.Writer

	bob, err := feal4.NewParty("bob", cfg, logger.Named("bob"))
	if err != nil {
		return err
	}
	if err := bob.Listen(""); err != nil {
		return err
	}
	defer bob.Close()
	fmt.Fprintln(out, ">>> Bob generates a pair of Merkle-Hellman knapsack keys and listens on", bob.ListenAddr())

	dir := memory.New()
	entry, err := bob.Entry()
	if err != nil {
		return err
	}
	if err := dir.Announce(entry); err != nil {
		return err
	}

	alice, err := feal4.NewParty("alice", cfg, logger.Named("alice"))
	if err != nil {
		return err
	}
	fmt.Fprintln(out, ">>> Alice generates an ElGamal signature system and key.")

	type result struct {
		msg session.Message
		err error
	}
	resCh := make(chan result, 1)
	go func() {
		m, err := bob.Receive(ctx)
		resCh <- result{m, err}
	}()

	fmt.Fprintf(out, ">>> Alice encrypts the message with FEAL-4 in CFB mode (%d-bit segments), signs the ciphertext and wraps the key.\n", cfg.SegmentBits)
	if err := alice.SendTo(ctx, dir, "bob", []byte(msg)); err != nil {
		return err
	}
	res := <-resCh
	if res.err != nil {
		return res.err
	}
	fmt.Fprintln(out, ">>> Bob verifies the signature, unwraps the key and decrypts the message.")
	fmt.Fprintf(out, "Original Message: %s\n", msg)
	fmt.Fprintf(out, "Decrypted Message: %s\n", res.msg.Plaintext)
	fmt.Fprintf(out, "Sender: %s\n", res.msg.Sender)
	return nil
}
