// Package transport builds the gRPC channel every sender, receiver and
// ingester in this module dials through, adapted from redb-open's
// pkg/grpc client options (ClientOptions/DefaultClientOptions/NewClient)
// and generalized with TLS and per-call stream-name metadata the way
// aistreams/base/util/grpc_helpers.h's CreateGrpcChannel and
// FillGrpcClientContext do.
package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/metadata"

	"github.com/packetstream/client-go/internal/wire"
)

// SslOptions configures transport security for a channel. The zero value
// requests a TLS channel (aistreams/base/connection_options.h:
// SslOptions, use_insecure_channel defaults true in the original; this
// client instead requires an explicit opt-in to insecure below).
type SslOptions struct {
	UseInsecureChannel bool
	SslDomainName      string
	SslRootCertPath    string
}

// ConnectionOptions names the server this module talks to and how to
// secure the connection to it (aistreams/base/connection_options.h).
type ConnectionOptions struct {
	TargetAddress string
	Ssl           SslOptions

	KeepaliveTime    time.Duration
	KeepaliveTimeout time.Duration
	DialTimeout      time.Duration
	DialOptions      []grpc.DialOption
}

// DefaultConnectionOptions returns keepalive and timeout defaults matching
// the teacher client's DefaultClientOptions.
func DefaultConnectionOptions(targetAddress string) ConnectionOptions {
	return ConnectionOptions{
		TargetAddress:    targetAddress,
		KeepaliveTime:    10 * time.Second,
		KeepaliveTimeout: 3 * time.Second,
		DialTimeout:      10 * time.Second,
	}
}

// NewChannel dials ConnectionOptions.TargetAddress, establishing TLS or
// plaintext transport per Ssl, and pins every call on this channel to the
// module's JSON content-subtype codec.
func NewChannel(ctx context.Context, opts ConnectionOptions) (*grpc.ClientConn, error) {
	creds, err := channelCredentials(opts.Ssl)
	if err != nil {
		return nil, err
	}

	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                opts.KeepaliveTime,
			Timeout:             opts.KeepaliveTimeout,
			PermitWithoutStream: true,
		}),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(wire.CodecName)),
	}
	dialOpts = append(dialOpts, opts.DialOptions...)

	if opts.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.DialTimeout)
		defer cancel()
		dialOpts = append(dialOpts, grpc.WithBlock())
	}

	return grpc.DialContext(ctx, opts.TargetAddress, dialOpts...)
}

func channelCredentials(ssl SslOptions) (credentials.TransportCredentials, error) {
	if ssl.UseInsecureChannel {
		return insecure.NewCredentials(), nil
	}

	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	if ssl.SslRootCertPath != "" {
		pem, err := os.ReadFile(ssl.SslRootCertPath)
		if err != nil {
			return nil, err
		}
		pool.AppendCertsFromPEM(pem)
	}
	return credentials.NewTLS(&tls.Config{
		RootCAs:    pool,
		ServerName: ssl.SslDomainName,
	}), nil
}

// RpcOptions tunes a single call: whether to block waiting for the channel
// to become ready, and the call's deadline.
type RpcOptions struct {
	WaitForReady bool
	Timeout      time.Duration
}

// CallContext derives a context carrying RpcOptions' deadline and a
// stream-name metadata header, mirroring FillGrpcClientContext's role of
// stamping every outgoing RPC with the target stream.
func CallContext(ctx context.Context, streamName string, opts RpcOptions) (context.Context, context.CancelFunc) {
	ctx = metadata.AppendToOutgoingContext(ctx, "stream-name", streamName)
	if opts.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, opts.Timeout)
}

// CallOptions returns the grpc.CallOptions matching RpcOptions.
func CallOptions(opts RpcOptions) []grpc.CallOption {
	if opts.WaitForReady {
		return []grpc.CallOption{grpc.WaitForReady(true)}
	}
	return nil
}

// TokenProvider supplies a per-call auth token. Concrete token sources
// (files, OAuth exchanges, secret managers) are a caller concern; this
// module only defines the seam a caller's transport.DialOptions can use to
// plug one in, e.g. via grpc.WithPerRPCCredentials.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}
