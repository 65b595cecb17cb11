package adapters

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/amirhadar/pdep-go/pkg/perrors"
	"github.com/amirhadar/pdep-go/pkg/resource"
	sshtransport "github.com/amirhadar/pdep-go/pkg/transport/ssh"
)

// classifySSHError maps an SSH connect/handshake failure to perrors'
// taxonomy as Transient: connection refused, timeout, or host-key
// mismatch are all conditions a retried apply may resolve once the host
// or its network comes up, unlike an AWS-side 4xx.
func classifySSHError(err error) error {
	if err == nil {
		return nil
	}
	return perrors.NewTransient("%v", err)
}

// SshHostInput identifies an already-existing host reachable over SSH:
// this engine never provisions the host itself, only verifies and
// describes it. Grounded on SimpleNetBB's DefaultVpc() "wrap, don't
// create" pattern, applied here to a bare-metal/VM target instead of a
// VPC.
type SshHostInput struct {
	Host           string `json:"host" validate:"required"`
	Port           int    `json:"port,omitempty"`
	User           string `json:"user" validate:"required"`
	PrivateKeyPath string `json:"private_key_path,omitempty"`
	KnownHostsPath string `json:"known_hosts_path,omitempty"`
}

// SshHostOutput is the discovered host's identity.
type SshHostOutput struct {
	Host string `json:"host"`
}

func sshConfigFromInput(in SshHostInput) *sshtransport.Config {
	cfg := sshtransport.DefaultConfig(in.Host, in.User)
	if in.Port != 0 {
		cfg.Port = in.Port
	}
	if in.PrivateKeyPath != "" {
		cfg.AuthMethod = sshtransport.AuthMethodKey
		cfg.PrivateKeyPath = in.PrivateKeyPath
	} else {
		cfg.AuthMethod = sshtransport.AuthMethodAgent
	}
	cfg.KnownHostsPath = in.KnownHostsPath
	cfg.StrictHostKeyChecking = in.KnownHostsPath != ""
	return cfg
}

// SshHost builds an Existing adapter that discovers an existing host by
// connecting to it over SSH: Create never provisions anything, it only
// confirms reachability, matching the "existing resource" pattern
// SPEC_FULL.md carries over from DefaultVpc.
func SshHost(log zerolog.Logger) Existing[SshHostInput, SshHostOutput] {
	return Existing[SshHostInput, SshHostOutput]{
		Tag: "ssh.Host",
		Log: log,
		Discover: func(ctx context.Context, _ resource.Provider, in SshHostInput) (SshHostOutput, error) {
			client, err := sshtransport.NewSSHClient(sshConfigFromInput(in))
			if err != nil {
				return SshHostOutput{}, classifySSHError(err)
			}
			if err := client.Connect(ctx); err != nil {
				return SshHostOutput{}, classifySSHError(err)
			}
			defer client.Disconnect()
			return SshHostOutput{Host: in.Host}, nil
		},
		Drifted: func(ctx context.Context, _ resource.Provider, in SshHostInput, out SshHostOutput) (bool, error) {
			client, err := sshtransport.NewSSHClient(sshConfigFromInput(in))
			if err != nil {
				return false, classifySSHError(err)
			}
			if err := client.Connect(ctx); err != nil {
				return true, nil
			}
			defer client.Disconnect()
			return false, nil
		},
	}
}
