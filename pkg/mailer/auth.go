package mailer

import (
	"errors"
	"strings"

	"github.com/wneessen/go-mail/smtp"
)

// ErrNoAuthMechanism means the relay advertised no mechanism we can use.
var ErrNoAuthMechanism = errors.New("relay offers no supported AUTH mechanism")

// authPreference is tried in order against the relay's AUTH extension.
var authPreference = []string{"CRAM-MD5", "PLAIN", "LOGIN"}

// relayAuth picks the first preferred mechanism the relay advertises and
// delegates to go-mail's implementation of it. PLAIN and LOGIN still refuse
// to send credentials over an unencrypted connection to anything but
// localhost.
type relayAuth struct {
	username string
	password string
	host     string
	chosen   smtp.Auth
}

func newRelayAuth(username, password, host string) *relayAuth {
	return &relayAuth{username: username, password: password, host: host}
}

func (a *relayAuth) Start(server *smtp.ServerInfo) (string, []byte, error) {
	a.chosen = nil
	for _, mech := range authPreference {
		if !offers(server.Auth, mech) {
			continue
		}
		switch mech {
		case "CRAM-MD5":
			a.chosen = smtp.CRAMMD5Auth(a.username, a.password)
		case "PLAIN":
			a.chosen = smtp.PlainAuth("", a.username, a.password, a.host, false)
		case "LOGIN":
			a.chosen = smtp.LoginAuth(a.username, a.password, a.host, false)
		}
		return a.chosen.Start(server)
	}
	return "", nil, ErrNoAuthMechanism
}

func (a *relayAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if a.chosen == nil {
		return nil, ErrNoAuthMechanism
	}
	return a.chosen.Next(fromServer, more)
}

func offers(advertised []string, mech string) bool {
	for _, m := range advertised {
		if strings.EqualFold(m, mech) {
			return true
		}
	}
	return false
}
