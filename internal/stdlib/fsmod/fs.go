// Package fsmod implements the `fs` standard-library module (spec §6):
// file I/O sandboxed under a project root via go-billy, so a hosted
// script can never read or write outside the directory the embedding
// application hands it.
package fsmod

import (
	"io"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/slurpy-films/probescript/internal/runtime"
	"github.com/slurpy-films/probescript/internal/stdlib/stdlibutil"
)

// New builds the `fs` module rooted at root. An empty root falls back
// to the process's current directory.
func New(root string) *runtime.Object {
	if root == "" {
		root = "."
	}
	return build(osfs.New(root))
}

func build(fsys billy.Filesystem) *runtime.Object {
	obj := runtime.NewObject()

	obj.Props_["readFile"] = &runtime.NativeFn{Name: "readFile", Fn: func(args []runtime.Value, this runtime.Value) (runtime.Value, error) {
		path, err := stdlibutil.StringArg(args, 0, "fs.readFile")
		if err != nil {
			return nil, err
		}
		f, err := fsys.Open(path)
		if err != nil {
			return nil, stdlibutil.Err("fs.readFile: %s", err)
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, stdlibutil.Err("fs.readFile: %s", err)
		}
		return runtime.NewString(string(data)), nil
	}}

	obj.Props_["writeFile"] = &runtime.NativeFn{Name: "writeFile", Fn: func(args []runtime.Value, this runtime.Value) (runtime.Value, error) {
		path, err := stdlibutil.StringArg(args, 0, "fs.writeFile")
		if err != nil {
			return nil, err
		}
		content, err := stdlibutil.StringArg(args, 1, "fs.writeFile")
		if err != nil {
			return nil, err
		}
		f, err := fsys.Create(path)
		if err != nil {
			return nil, stdlibutil.Err("fs.writeFile: %s", err)
		}
		defer f.Close()
		if _, err := f.Write([]byte(content)); err != nil {
			return nil, stdlibutil.Err("fs.writeFile: %s", err)
		}
		return runtime.NewUndef(), nil
	}}

	obj.Props_["exists"] = &runtime.NativeFn{Name: "exists", Fn: func(args []runtime.Value, this runtime.Value) (runtime.Value, error) {
		path, err := stdlibutil.StringArg(args, 0, "fs.exists")
		if err != nil {
			return nil, err
		}
		_, statErr := fsys.Stat(path)
		return runtime.NewBool(statErr == nil), nil
	}}

	return obj
}
