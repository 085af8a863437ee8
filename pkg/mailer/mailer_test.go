package mailer

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// fakeSMTP — minimal relay that accepts anything and records DATA payloads
// ---------------------------------------------------------------------------

type fakeSMTP struct {
	ln       net.Listener
	authMech string // advertised AUTH mechanism, empty for none
	mu       sync.Mutex
	messages []string
	commands []string
	logins   []string // "user:pass" per successful AUTH
	conns    int
}

func newFakeSMTP(t *testing.T) *fakeSMTP {
	return newFakeSMTPWithAuth(t, "")
}

func newFakeSMTPWithAuth(t *testing.T, mech string) *fakeSMTP {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := &fakeSMTP{ln: ln, authMech: mech}
	go s.serve()
	t.Cleanup(func() { _ = ln.Close() })
	return s
}

func (s *fakeSMTP) port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

func (s *fakeSMTP) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns++
		s.mu.Unlock()
		go s.handle(conn)
	}
}

func (s *fakeSMTP) handle(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(10 * time.Second))
	r := bufio.NewReader(conn)
	reply := func(line string) { _, _ = conn.Write([]byte(line + "\r\n")) }

	readLine := func() (string, bool) {
		l, err := r.ReadString('\n')
		if err != nil {
			return "", false
		}
		return strings.TrimSpace(l), true
	}
	decode := func(b64 string) string {
		b, _ := base64.StdEncoding.DecodeString(b64)
		return string(b)
	}

	reply("220 fake.local ESMTP")
	for {
		raw, ok := readLine()
		if !ok {
			return
		}
		cmd := strings.ToUpper(raw)
		s.mu.Lock()
		s.commands = append(s.commands, cmd)
		s.mu.Unlock()

		switch {
		case strings.HasPrefix(cmd, "EHLO"):
			if s.authMech != "" {
				reply("250-fake.local")
				reply("250 AUTH " + s.authMech)
			} else {
				reply("250 fake.local")
			}
		case strings.HasPrefix(cmd, "HELO"):
			reply("250 fake.local")
		case strings.HasPrefix(cmd, "AUTH LOGIN") && s.authMech == "LOGIN":
			fields := strings.Fields(raw)
			var user string
			if len(fields) == 3 {
				user = decode(fields[2])
			} else {
				reply("334 " + base64.StdEncoding.EncodeToString([]byte("Username:")))
				if user, ok = readLine(); !ok {
					return
				}
				user = decode(user)
			}
			reply("334 " + base64.StdEncoding.EncodeToString([]byte("Password:")))
			pass, ok := readLine()
			if !ok {
				return
			}
			s.mu.Lock()
			s.logins = append(s.logins, user+":"+decode(pass))
			s.mu.Unlock()
			reply("235 authenticated")
		case strings.HasPrefix(cmd, "AUTH PLAIN") && s.authMech == "PLAIN":
			fields := strings.Fields(raw)
			var resp string
			if len(fields) == 3 {
				resp = fields[2]
			} else {
				reply("334 ")
				if resp, ok = readLine(); !ok {
					return
				}
			}
			parts := strings.Split(decode(resp), "\x00")
			if len(parts) != 3 {
				reply("535 bad credentials")
				continue
			}
			s.mu.Lock()
			s.logins = append(s.logins, parts[1]+":"+parts[2])
			s.mu.Unlock()
			reply("235 authenticated")
		case strings.HasPrefix(cmd, "AUTH"):
			reply("504 unrecognized authentication type")
		case cmd == "DATA":
			reply("354 go ahead")
			var body strings.Builder
			for {
				l, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if l == ".\r\n" {
					break
				}
				body.WriteString(l)
			}
			s.mu.Lock()
			s.messages = append(s.messages, body.String())
			s.mu.Unlock()
			reply("250 queued")
		case cmd == "QUIT":
			reply("221 bye")
			return
		default:
			reply("250 ok")
		}
	}
}

func (s *fakeSMTP) received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

func (s *fakeSMTP) sawCommand(prefix string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.commands {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

func (s *fakeSMTP) authenticated() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.logins...)
}

func (s *fakeSMTP) connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conns
}

func plainConfig(port int) Config {
	return Config{
		Host:     "127.0.0.1",
		Port:     port,
		Sender:   "site@example.com",
		Receiver: "ops@example.com",
		UseTLS:   false,
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestConfig_Complete(t *testing.T) {
	full := plainConfig(25)
	assert.True(t, full.Complete())

	for name, mutate := range map[string]func(*Config){
		"host":     func(c *Config) { c.Host = "" },
		"port":     func(c *Config) { c.Port = 0 },
		"sender":   func(c *Config) { c.Sender = "" },
		"receiver": func(c *Config) { c.Receiver = "" },
	} {
		cfg := full
		mutate(&cfg)
		assert.False(t, cfg.Complete(), "missing %s", name)
	}
}

func TestSend_NotConfiguredMakesNoConnection(t *testing.T) {
	srv := newFakeSMTP(t)
	cfg := plainConfig(srv.port())
	cfg.Receiver = ""
	c := NewClient(cfg)

	res := c.Send(context.Background(), Message{Subject: "s", Body: "b"})

	assert.False(t, c.Configured())
	assert.False(t, res.Delivered)
	assert.True(t, errors.Is(res.Err, ErrNotConfigured))
	assert.Equal(t, "SMTP settings are incomplete.", res.Detail)
	assert.Zero(t, srv.connections())
}

func TestSend_Delivers(t *testing.T) {
	srv := newFakeSMTP(t)
	c := NewClient(plainConfig(srv.port()))

	res := c.Send(context.Background(), Message{
		Subject: "New inquiry from Ana",
		Body:    "From: Ana <ana@example.com>\n\nNeed a 40ft container quote.",
		ReplyTo: "ana@example.com",
	})

	require.True(t, res.Delivered, "detail: %s", res.Detail)
	assert.NoError(t, res.Err)
	assert.Equal(t, "Email sent.", res.Detail)

	msgs := srv.received()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "Subject: New inquiry from Ana")
	assert.Contains(t, msgs[0], "Need a 40ft container quote.")
	assert.Contains(t, msgs[0], "ops@example.com")
	assert.True(t, srv.sawCommand("QUIT"), "connection must be closed after sending")
	assert.False(t, srv.sawCommand("AUTH"), "no credentials configured")
}

func TestSend_TLSRequiredButUnsupported(t *testing.T) {
	srv := newFakeSMTP(t)
	cfg := plainConfig(srv.port())
	cfg.UseTLS = true
	c := NewClient(cfg)

	res := c.Send(context.Background(), Message{Subject: "s", Body: "b"})

	assert.False(t, res.Delivered)
	assert.True(t, errors.Is(res.Err, ErrDelivery))
	assert.NotEmpty(t, res.Detail)
	assert.Empty(t, srv.received())
}

func TestSend_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	c := NewClient(plainConfig(port))
	res := c.Send(context.Background(), Message{Subject: "s", Body: "b"})

	assert.False(t, res.Delivered)
	assert.True(t, errors.Is(res.Err, ErrDelivery))
	assert.NotEmpty(t, res.Detail)
}

func TestSend_InvalidSenderAddress(t *testing.T) {
	srv := newFakeSMTP(t)
	cfg := plainConfig(srv.port())
	cfg.Sender = "not an address"
	c := NewClient(cfg)

	res := c.Send(context.Background(), Message{Subject: "s", Body: "b"})

	assert.False(t, res.Delivered)
	assert.True(t, errors.Is(res.Err, ErrDelivery))
	assert.Zero(t, srv.connections())
}

func TestSend_AuthenticatesWithAdvertisedMechanism(t *testing.T) {
	for _, mech := range []string{"LOGIN", "PLAIN"} {
		t.Run(mech, func(t *testing.T) {
			srv := newFakeSMTPWithAuth(t, mech)
			cfg := plainConfig(srv.port())
			cfg.Username = "relay-user"
			cfg.Password = " s3cret "
			c := NewClient(cfg)

			res := c.Send(context.Background(), Message{Subject: "s", Body: "b"})

			require.True(t, res.Delivered, "detail: %s", res.Detail)
			assert.Equal(t, []string{"relay-user: s3cret "}, srv.authenticated())
			assert.True(t, srv.sawCommand("AUTH "+mech))
			assert.Len(t, srv.received(), 1)
		})
	}
}

func TestSend_NoAuthWithoutPassword(t *testing.T) {
	srv := newFakeSMTPWithAuth(t, "LOGIN")
	cfg := plainConfig(srv.port())
	cfg.Username = "relay-user"
	c := NewClient(cfg)

	res := c.Send(context.Background(), Message{Subject: "s", Body: "b"})

	require.True(t, res.Delivered, "detail: %s", res.Detail)
	assert.False(t, srv.sawCommand("AUTH"))
}
