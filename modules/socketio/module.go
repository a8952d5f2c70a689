// Package socketio provides a Notifier plugin that emits events to a
// socket.io server.
//
// The client is wired entirely from resources:
//
//	socketio.url                   server URL, e.g. "http://localhost:3000/socket.io/"
//	socketio.namespace             socket.io namespace, default "/"
//	socketio.timeout               connection timeout, default "10s"
//	socketio.insecure_skip_verify  skip TLS certificate verification
//	pluginspi.logger               logger bound by the registry
//
// It connects in its post-construction hook when a URL is bound and stays
// disconnected otherwise.
package socketio

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/mwnorman/pluginspi/internal/loader"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Namespace is the symbolic name the package is registered under.
const Namespace = "socketio"

const defaultTimeout = 10 * time.Second

// ErrNotConnected is returned by Notify on a client without a connection.
var ErrNotConnected = errors.New("socket.io client is not connected")

// Notifier is the capability contract of the notification plugins.
type Notifier interface {
	Notify(ctx context.Context, event string, payload any) error
}

// Module implements the loader.Module interface for this package.
type Module struct{}

// Client is a socket.io Notifier.
type Client struct {
	rawURL             string `resource:"socketio.url"`
	namespace          string `resource:"socketio.namespace"`
	timeout            string `resource:"socketio.timeout"`
	insecureSkipVerify bool   `resource:"socketio.insecure_skip_verify"`

	logger *slog.Logger `resource:"pluginspi.logger"`
	io     *socket.Socket
}

func (c *Client) log() *slog.Logger {
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// PostConstruct connects the client when a URL is bound.
func (c *Client) PostConstruct() error {
	logger := c.log().With("plugin", "socketio", "url", c.rawURL)
	if c.rawURL == "" {
		logger.Debug("No URL bound, client stays disconnected.")
		return nil
	}

	timeout := defaultTimeout
	if c.timeout != "" {
		parsed, err := time.ParseDuration(c.timeout)
		if err != nil {
			logger.Warn("Failed to parse timeout, using default 10s", "timeout", c.timeout, "error", err)
		} else {
			timeout = parsed
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	io, err := connect(ctx, logger, c.rawURL, c.namespace, c.insecureSkipVerify)
	if err != nil {
		return err
	}
	c.io = io
	return nil
}

// Notify implements Notifier by emitting event with payload.
func (c *Client) Notify(ctx context.Context, event string, payload any) error {
	if c.io == nil {
		return ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	c.log().Debug("Emitting event", "plugin", "socketio", "event", event, "sid", c.io.Id())
	c.io.Emit(event, payload)
	return nil
}

// Close disconnects the client.
func (c *Client) Close() error {
	if c.io == nil {
		return nil
	}
	c.log().Info("Destroying socket.io client instance", "plugin", "socketio", "sid", c.io.Id())
	c.io.Disconnect()
	c.io = nil
	return nil
}

func connect(ctx context.Context, logger *slog.Logger, rawURL, namespace string, insecure bool) (*socket.Socket, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("URL %q needs a scheme and a host", rawURL)
	}
	if namespace == "" {
		namespace = "/"
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if insecure {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Successfully connected", "sid", io.Id())
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connectChan <- err:
		default:
		}
	})

	logger.Debug("Initiating connection...")
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return io, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("timed out waiting for socket.io connection: %w", ctx.Err())
	}
}

// Register defines the namespace with the loader.
func (m *Module) Register(l *loader.Loader) {
	l.Define(Namespace,
		loader.Type[Client]("Client", loader.Implements[Notifier]()),
	)
}
