package adapters

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/amirhadar/pdep-go/pkg/perrors"
	sshtransport "github.com/amirhadar/pdep-go/pkg/transport/ssh"
)

func TestSshHostClassTag(t *testing.T) {
	if got := SshHost(zerolog.Nop()).ClassTag(); got != "ssh.Host" {
		t.Errorf("unexpected class tag: %s", got)
	}
}

func TestSshConfigFromInputDefaultsToAgentAuth(t *testing.T) {
	cfg := sshConfigFromInput(SshHostInput{Host: "10.0.0.5", User: "ec2-user"})
	if cfg.AuthMethod != sshtransport.AuthMethodAgent {
		t.Errorf("expected agent auth when no private key path is set, got %s", cfg.AuthMethod)
	}
	if cfg.Port != 22 {
		t.Errorf("expected default port 22, got %d", cfg.Port)
	}
}

func TestSshConfigFromInputUsesKeyAuthWhenPathGiven(t *testing.T) {
	cfg := sshConfigFromInput(SshHostInput{Host: "10.0.0.5", User: "ec2-user", PrivateKeyPath: "/tmp/id_ed25519", Port: 2222})
	if cfg.AuthMethod != sshtransport.AuthMethodKey {
		t.Errorf("expected key auth, got %s", cfg.AuthMethod)
	}
	if cfg.Port != 2222 {
		t.Errorf("expected overridden port, got %d", cfg.Port)
	}
}

func TestClassifySSHErrorNilAndNonNil(t *testing.T) {
	if err := classifySSHError(nil); err != nil {
		t.Errorf("expected nil to classify to nil, got %v", err)
	}
	err := classifySSHError(errors.New("connection refused"))
	var perr *perrors.Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected a perrors.Error, got %T", err)
	}
	if perr.Class != perrors.Transient {
		t.Errorf("expected Transient class, got %v", perr.Class)
	}
}
