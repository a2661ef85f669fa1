package server

import (
	"net"

	"github.com/pkg/errors"
	. "github.com/stevegt/goadapt"
	nn "github.com/t7a/netnode"
	"github.com/vmihailenco/msgpack"
)

// Client talks to a Server over its UNIX domain socket, mirroring
// the Node API remotely.  A Client is not safe for concurrent use;
// open one per goroutine.
type Client struct {
	Ns      string
	conn    net.Conn
	encoder *msgpack.Encoder
	decoder *msgpack.Decoder
}

// Connect to an existing server socket at fn, scoped to the named
// namespace.
func Connect(fn, ns string) (c *Client, err error) {
	defer Return(&err)
	conn, err := net.Dial("unix", fn)
	Ck(err)
	c = &Client{
		Ns:      ns,
		conn:    conn,
		encoder: msgpack.NewEncoder(conn),
		decoder: msgpack.NewDecoder(conn),
	}
	return
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) call(req *Request) (res *Response, err error) {
	defer Return(&err)
	req.Ns = c.Ns
	err = c.encoder.Encode(req)
	Ck(err)
	res = &Response{}
	err = c.decoder.Decode(res)
	Ck(err)
	if res.Err != "" {
		return nil, errors.New(res.Err)
	}
	return
}

func (c *Client) Get(key nn.Key) (val []byte, err error) {
	res, err := c.call(&Request{Op: "get", Key: key})
	if err != nil {
		return
	}
	return res.Val, nil
}

func (c *Client) Set(key nn.Key, val []byte) (err error) {
	_, err = c.call(&Request{Op: "set", Key: key, Val: val})
	return
}

func (c *Client) Del(key nn.Key) (err error) {
	_, err = c.call(&Request{Op: "del", Key: key})
	return
}

func (c *Client) Has(key nn.Key) (found bool, err error) {
	res, err := c.call(&Request{Op: "has", Key: key})
	if err != nil {
		return
	}
	return res.Found, nil
}

func (c *Client) Keys() (keys []nn.Key, err error) {
	res, err := c.call(&Request{Op: "keys"})
	if err != nil {
		return
	}
	return res.Keys, nil
}

func (c *Client) Kill() (err error) {
	_, err = c.call(&Request{Op: "kill"})
	return
}
