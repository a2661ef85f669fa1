package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmdtest"
	"github.com/pkg/fileutils"
)

var update = flag.Bool("update", false, "update test files with results")

func TestCLI(t *testing.T) {
	ts, err := cmdtest.Read("testdata")
	if err != nil {
		t.Fatal(err)
	}
	ts.KeepRootDirs = true
	srcdir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	ts.Setup = func(dir string) (err error) {
		err = fileutils.CopyFile("bigval", filepath.Join(srcdir, "testdata/bigval"))
		if err != nil {
			panic(err)
		}
		dbdir := filepath.Join(dir, "db")
		err = os.Mkdir(dbdir, 0755)
		if err != nil {
			panic(err)
		}
		os.Setenv("DBDIR", dbdir)
		return
	}
	ts.Commands["nn"] = cmdtest.InProcessProgram("nn", run)
	ts.Run(t, *update)
}
