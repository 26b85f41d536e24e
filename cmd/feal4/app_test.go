package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp(zaptest.NewLogger(t), strings.NewReader(stdin), &out)
	err := app.Run(append([]string{"feal4"}, args...))
	return out.String(), err
}

func TestKeygen(t *testing.T) {
	out, err := run(t, "", "keygen")
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "key=") || len(lines[0]) != 4+16 {
		t.Fatalf("unexpected output %q", out)
	}

	a, _ := run(t, "", "keygen", "--passphrase", "pw", "--salt", "s")
	b, _ := run(t, "", "keygen", "--passphrase", "pw", "--salt", "s")
	if a != b {
		t.Fatalf("passphrase keygen not deterministic")
	}
}

func TestEncryptDecryptFiles(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.txt")
	enc := filepath.Join(dir, "cipher.bin")
	dec := filepath.Join(dir, "plain.out")
	want := []byte("file contents that end with zeros\x00\x00")
	if err := os.WriteFile(plain, want, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	keyArgs := []string{"--key", "0123456789abcdef", "--iv", "fedcba9876543210", "-s", "24"}
	if _, err := run(t, "", append([]string{"encrypt", "--in", plain, "--out", enc}, keyArgs...)...); err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := run(t, "", append([]string{"decrypt", "--in", enc, "--out", dec}, keyArgs...)...); err != nil {
		t.Fatalf("decrypt: %v", err)
	}

	ct, _ := os.ReadFile(enc)
	got, _ := os.ReadFile(dec)
	if len(ct) != len(want) || bytes.Equal(ct, want) {
		t.Fatalf("unexpected ciphertext %x", ct)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("want %q got %q", want, got)
	}
}

func TestEncryptKnownAnswerStdout(t *testing.T) {
	out, err := run(t, "hello, feal-4 in cfb mode!", "encrypt",
		"--key", "0123456789abcdef", "--iv", "fedcba9876543210", "--segment-bits", "24")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	want := "76328679f96f001dae0ffa7b84b071702178e441e361a9a94220"
	if got := hex.EncodeToString([]byte(out)); got != want {
		t.Fatalf("want %s got %s", want, got)
	}
}

func TestEncryptRequiresKey(t *testing.T) {
	if _, err := run(t, "x", "encrypt"); err == nil {
		t.Fatalf("expected error without key material")
	}
	if _, err := run(t, "x", "encrypt", "--key", "00", "--iv", "0000000000000000"); err == nil {
		t.Fatalf("expected error for short key")
	}
	if _, err := run(t, "x", "encrypt", "--passphrase", "p", "-s", "12"); err == nil {
		t.Fatalf("expected error for invalid segment size")
	}
}

func TestDemo(t *testing.T) {
	out, err := run(t, "", "demo", "--message", "meet at noon", "--timeout", "5s")
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	if !strings.Contains(out, "Decrypted Message: meet at noon") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestDemoReadsStdin(t *testing.T) {
	out, err := run(t, "typed message\n", "demo", "--timeout", "5s")
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	if !strings.Contains(out, "Decrypted Message: typed message\n") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestVerboseOnlyFromGlobalFlag(t *testing.T) {
	var got []bool
	orig := buildLogger
	buildLogger = func(verbose bool) *zap.Logger {
		got = append(got, verbose)
		return zaptest.NewLogger(t)
	}
	defer func() { buildLogger = orig }()

	var out bytes.Buffer
	app := newApp(nil, strings.NewReader("x"), &out)
	if err := app.Run([]string{"feal4", "encrypt", "--passphrase", "-v"}); err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	app = newApp(nil, strings.NewReader(""), &out)
	if err := app.Run([]string{"feal4", "--verbose", "keygen"}); err != nil {
		t.Fatalf("keygen: %v", err)
	}
	if len(got) != 2 || got[0] || !got[1] {
		t.Fatalf("unexpected verbose choices %v", got)
	}
}
