package server

import (
	"fmt"
	"io"
	"net"

	log "github.com/sirupsen/logrus"
	. "github.com/stevegt/goadapt"
	nn "github.com/t7a/netnode"
	"github.com/vmihailenco/msgpack"
)

// Request is one client message.  Op is the operation name; Ns names
// the namespace; Key and Val carry the operands for ops that need
// them.
type Request struct {
	Op  string
	Ns  string
	Key nn.Key
	Val []byte
}

// Response is the server's answer to one Request.  Err is the error
// string, empty on success.
type Response struct {
	Val   []byte
	Keys  []nn.Key
	Found bool
	Err   string
}

// Server serves a db's nodes over a UNIX domain socket, speaking
// msgpack-framed Request/Response pairs.
type Server struct {
	Db *nn.Db
}

func New(db *nn.Db) *Server {
	return &Server{Db: db}
}

// Listen on a new UNIX domain socket at fn.
func (s *Server) Listen(fn string) (listener net.Listener, err error) {
	defer Return(&err)
	listener, err = net.Listen("unix", fn)
	Ck(err)
	return
}

// Serve requests on a UNIX domain socket at fn.
func (s *Server) Serve(fn string) (err error) {
	defer Return(&err)

	listener, err := s.Listen(fn)
	Ck(err)

	go func() {
		for {
			// accept connection from client
			conn, err := listener.Accept()
			if err != nil {
				log.Errorf("accept: %v", err)
				return
			}

			go s.handle(conn)
		}
	}()
	return
}

// handle a single connection from a client
func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	decoder := msgpack.NewDecoder(conn)
	encoder := msgpack.NewEncoder(conn)
	for {
		var req Request
		err := decoder.Decode(&req)
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Errorf("decode: %v", err)
			break
		}

		res := s.dispatch(&req)

		err = encoder.Encode(res)
		if err != nil {
			log.Errorf("encode: %v", err)
			break
		}
	}
}

// dispatch runs one request against the db and packs the result.
func (s *Server) dispatch(req *Request) (res *Response) {
	res = &Response{}

	node, err := s.Db.Node(req.Ns)
	if err != nil {
		res.Err = err.Error()
		return
	}

	switch req.Op {
	case "get":
		res.Val, err = node.Get(req.Key)
	case "set":
		err = node.Set(req.Key, req.Val)
	case "del":
		err = node.Del(req.Key)
	case "has":
		res.Found = node.Has(req.Key)
	case "keys":
		res.Keys, err = node.Keys()
	case "kill":
		err = node.Kill()
	default:
		err = fmt.Errorf("unknown op: %s", req.Op)
	}
	if err != nil {
		res.Err = err.Error()
	}
	return
}
