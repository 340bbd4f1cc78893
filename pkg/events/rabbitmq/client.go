// Package rabbitmq wraps the finalization exchange connection: a
// reconnecting AMQP091 client and a publisher that serializes and ships a
// single event type to it. The Lifecycle Coordinator is a pure producer —
// it never declares or binds a consumer queue, so that surface is not
// exposed here.
package rabbitmq

import (
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Config holds the finalization exchange's connection parameters.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	VHost    string

	Reconnect      bool
	ReconnectDelay time.Duration
}

// Client owns the AMQP connection and channel the finalization exchange is
// published through, reconnecting automatically when either drops.
type Client struct {
	config     Config
	logger     *zap.Logger
	connection *amqp.Connection
	channel    *amqp.Channel

	connClosed chan *amqp.Error
	chanClosed chan *amqp.Error
}

// NewClient builds a Client bound to config. Connect must be called before
// the client is usable.
func NewClient(config Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config:     config,
		logger:     logger,
		connClosed: make(chan *amqp.Error),
		chanClosed: make(chan *amqp.Error),
	}
}

// Connect dials the broker, opens a channel, and — if Reconnect is set —
// starts a background goroutine that redials on connection or channel loss.
func (c *Client) Connect() error {
	url := fmt.Sprintf("amqp://%s:%s@%s:%d/%s",
		c.config.Username, c.config.Password, c.config.Host, c.config.Port, c.config.VHost)

	var err error
	c.connection, err = amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	c.connClosed = c.connection.NotifyClose(make(chan *amqp.Error, 1))

	c.channel, err = c.connection.Channel()
	if err != nil {
		c.connection.Close()
		return fmt.Errorf("failed to open a channel: %w", err)
	}

	c.chanClosed = c.channel.NotifyClose(make(chan *amqp.Error, 1))

	c.logger.Info("connected to rabbitmq", zap.String("host", c.config.Host), zap.Int("port", c.config.Port))

	if c.config.Reconnect {
		go c.handleReconnect()
	}

	return nil
}

// handleReconnect watches for connection or channel loss and redials.
func (c *Client) handleReconnect() {
	for {
		select {
		case err := <-c.connClosed:
			if err != nil {
				c.logger.Error("rabbitmq connection closed", zap.Error(err))
				time.Sleep(c.config.ReconnectDelay)
				c.reconnect()
			}
		case err := <-c.chanClosed:
			if err != nil {
				c.logger.Error("rabbitmq channel closed", zap.Error(err))
				time.Sleep(c.config.ReconnectDelay)
				c.reconnectChannel()
			}
		}
	}
}

func (c *Client) reconnect() {
	for {
		c.logger.Info("attempting to reconnect to rabbitmq")
		if err := c.Connect(); err != nil {
			c.logger.Error("failed to reconnect to rabbitmq", zap.Error(err))
			time.Sleep(c.config.ReconnectDelay)
			continue
		}
		return
	}
}

func (c *Client) reconnectChannel() {
	for {
		c.logger.Info("attempting to reopen rabbitmq channel")
		var err error
		c.channel, err = c.connection.Channel()
		if err != nil {
			c.logger.Error("failed to reopen rabbitmq channel", zap.Error(err))
			time.Sleep(c.config.ReconnectDelay)
			continue
		}
		c.chanClosed = c.channel.NotifyClose(make(chan *amqp.Error, 1))
		return
	}
}

// Close tears down the channel and connection.
func (c *Client) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			return fmt.Errorf("failed to close rabbitmq channel: %w", err)
		}
	}

	if c.connection != nil {
		if err := c.connection.Close(); err != nil {
			return fmt.Errorf("failed to close rabbitmq connection: %w", err)
		}
	}

	c.logger.Info("rabbitmq connection closed")
	return nil
}

// DeclareExchange declares the topic exchange the finalization publisher
// ships events to.
func (c *Client) DeclareExchange(name, kind string, durable, autoDelete bool) error {
	err := c.channel.ExchangeDeclare(
		name,
		kind,
		durable,
		autoDelete,
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange %q: %w", name, err)
	}
	return nil
}
