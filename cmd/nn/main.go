package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/docopt/docopt-go"
	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"

	nn "github.com/t7a/netnode"
	nnfuse "github.com/t7a/netnode/fuse"
	"github.com/t7a/netnode/server"
)

func init() {
	var debug string
	debug = os.Getenv("DEBUG")
	if debug == "1" {
		log.SetLevel(log.DebugLevel)
	}
	logrus.SetReportCaller(true)
	formatter := &logrus.TextFormatter{
		CallerPrettyfier: caller(),
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyFile: "caller",
		},
	}
	formatter.TimestampFormat = "15:04:05.999999999"
	logrus.SetFormatter(formatter)
}

// caller returns string presentation of log caller which is formatted as
// `/path/to/file.go:line_number`. e.g. `/internal/app/api.go:25`
// https://stackoverflow.com/questions/63658002/is-it-possible-to-wrap-logrus-logger-functions-without-losing-the-line-number-pr
func caller() func(*runtime.Frame) (function string, file string) {
	return func(f *runtime.Frame) (function string, file string) {
		p, _ := os.Getwd()
		return "", fmt.Sprintf("%s:%d gid %d", strings.TrimPrefix(f.File, p), f.Line, nn.GetGID())
	}
}

type Opts struct {
	Init   bool
	Set    bool
	Setf   bool
	Get    bool
	Del    bool
	Has    bool
	Keys   bool
	Items  bool
	Ls     bool
	Kill   bool
	Watch  bool
	Serve  bool
	Mount  bool
	Ns     string
	Key    string
	Value  string
	File   string
	Socket string
	Dir    string
	Int    bool `docopt:"-i"`
}

func main() {
	// see https://github.com/google/go-cmdtest
	os.Exit(run())
}

func run() (rc int) {

	usage := `netnode

Usage:
  nn init
  nn set [-i] <ns> <key> [<value>]
  nn setf [-i] <ns> <key> <file>
  nn get [-i] <ns> <key>
  nn del [-i] <ns> <key>
  nn has [-i] <ns> <key>
  nn keys <ns>
  nn items <ns>
  nn ls
  nn kill <ns>
  nn watch <ns>
  nn serve <socket>
  nn mount <dir>

Options:
  -h --help     Show this screen.
  -i            Treat <key> as an integer.
  --version     Show version.
`
	parser := &docopt.Parser{OptionsFirst: false}
	o, _ := parser.ParseArgs(usage, os.Args[1:], "0.0")
	var opts Opts
	err := o.Bind(&opts)
	if err != nil {
		log.Error(err)
		return 22
	}
	log.Debug(opts)

	switch true {
	case opts.Init:
		msg, err := create()
		if err != nil {
			log.Error(err)
			return 42
		}
		fmt.Println(msg)
	case opts.Set:
		var buf []byte
		if opts.Value != "" {
			buf = []byte(opts.Value)
		} else {
			var err error
			buf, err = ioutil.ReadAll(os.Stdin)
			if err != nil {
				log.Error(err)
				return 5
			}
		}
		node, key, err := openkey(opts)
		if err != nil {
			log.Error(err)
			return 42
		}
		err = node.Set(key, buf)
		if err != nil {
			log.Error(err)
			return 42
		}
	case opts.Setf:
		buf, err := ioutil.ReadFile(opts.File)
		if err != nil {
			log.Error(err)
			return 5
		}
		node, key, err := openkey(opts)
		if err != nil {
			log.Error(err)
			return 42
		}
		err = node.Set(key, buf)
		if err != nil {
			log.Error(err)
			return 42
		}
	case opts.Get:
		node, key, err := openkey(opts)
		if err != nil {
			log.Error(err)
			return 42
		}
		buf, err := node.Get(key)
		if err != nil {
			log.Error(err)
			return 42
		}
		_, err = os.Stdout.Write(buf)
		if err != nil {
			log.Error(err)
			return 25
		}
	case opts.Del:
		node, key, err := openkey(opts)
		if err != nil {
			log.Error(err)
			return 42
		}
		err = node.Del(key)
		if err != nil {
			log.Error(err)
			return 42
		}
	case opts.Has:
		node, key, err := openkey(opts)
		if err != nil {
			log.Error(err)
			return 42
		}
		if !node.Has(key) {
			fmt.Println("false")
			return 1
		}
		fmt.Println("true")
	case opts.Keys:
		node, err := opennode(opts.Ns)
		if err != nil {
			log.Error(err)
			return 42
		}
		keys, err := node.Keys()
		if err != nil {
			log.Error(err)
			return 42
		}
		for _, key := range keys {
			fmt.Println(key)
		}
	case opts.Items:
		node, err := opennode(opts.Ns)
		if err != nil {
			log.Error(err)
			return 42
		}
		items, err := node.Items()
		if err != nil {
			log.Error(err)
			return 42
		}
		for _, item := range items {
			fmt.Printf("%s\t%s\n", item.Key, string(item.Val))
		}
	case opts.Ls:
		db, err := opendb()
		if err != nil {
			log.Error(err)
			return 42
		}
		names, err := db.Namespaces()
		if err != nil {
			log.Error(err)
			return 42
		}
		for _, name := range names {
			fmt.Println(name)
		}
	case opts.Kill:
		node, err := opennode(opts.Ns)
		if err != nil {
			log.Error(err)
			return 42
		}
		err = node.Kill()
		if err != nil {
			log.Error(err)
			return 42
		}
	case opts.Watch:
		node, err := opennode(opts.Ns)
		if err != nil {
			log.Error(err)
			return 42
		}
		w, err := node.Watch()
		if err != nil {
			log.Error(err)
			return 42
		}
		defer w.Close()
		for event := range w.Events {
			fmt.Println(event)
		}
	case opts.Serve:
		db, err := opendb()
		if err != nil {
			log.Error(err)
			return 42
		}
		err = server.New(db).Serve(opts.Socket)
		if err != nil {
			log.Error(err)
			return 42
		}
		select {}
	case opts.Mount:
		db, err := opendb()
		if err != nil {
			log.Error(err)
			return 42
		}
		srv, err := nnfuse.Serve(db, opts.Dir)
		if err != nil {
			log.Error(err)
			return 42
		}
		srv.Wait()
	}
	return 0
}

func dbdir() (dir string) {
	dir = os.Getenv("DBDIR")
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			// XXX handling this better would mean that dbdir() needs
			// to return an err
			panic("can't get current directory")
		}
	}
	return
}

func create() (msg string, err error) {
	dir := dbdir()
	db, err := nn.Db{Dir: dir}.Create()
	if err != nil {
		return
	}
	return fmt.Sprintf("Initialized empty database in %s", db.Dir), nil
}

func opendb() (db *nn.Db, err error) {
	return nn.Open(dbdir())
}

func opennode(ns string) (node *nn.Node, err error) {
	db, err := opendb()
	if err != nil {
		return
	}
	return db.Node(ns)
}

func openkey(opts Opts) (node *nn.Node, key nn.Key, err error) {
	node, err = opennode(opts.Ns)
	if err != nil {
		return
	}
	if opts.Int {
		var num int64
		num, err = strconv.ParseInt(opts.Key, 10, 64)
		if err != nil {
			return
		}
		key = nn.IntKey(num)
	} else {
		key = nn.StrKey(opts.Key)
	}
	return
}
