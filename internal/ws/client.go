package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"elearning_platform/internal/registry"
	"elearning_platform/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

var (
	ErrSessionClosed = errors.New("session closed")
	ErrSlowConsumer  = errors.New("send buffer full")
)

// Client - базовая часть живой сессии: сокет, буфер исходящих кадров
// и гарантированная одноразовая очистка членства при закрытии.
type Client struct {
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	registry  registry.Registry
	log       logger.Logger
}

func newClient(conn *websocket.Conn, reg registry.Registry, log logger.Logger) *Client {
	return &Client{
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		registry: reg,
		log:      log,
	}
}

// Send ставит кадр в очередь без блокировки. Переполненный буфер или
// закрытая сессия - потерянный кадр; клиент сверится с историей
// при переподключении.
func (c *Client) Send(frame []byte) error {
	select {
	case <-c.done:
		return ErrSessionClosed
	default:
	}

	select {
	case c.send <- frame:
		return nil
	case <-c.done:
		return ErrSessionClosed
	default:
		return ErrSlowConsumer
	}
}

// close снимает сессию со всех групп ровно один раз, по любой причине
// закрытия (ошибка чтения, ошибка записи, уход клиента)
func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.registry.DropAll(c)
		close(c.done)
		c.conn.Close()
	})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) configureRead() {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
}
