// Package httpmod implements the `http` standard-library module (spec
// §6): a client GET, a minimal request-handling listener backed by
// net/http, and a WebSocket echo listener backed by gorilla/websocket.
// Per spec §5, listeners spawn server threads managed outside the
// interpreter's own concurrency model and are never shut down from
// script code.
package httpmod

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/slurpy-films/probescript/internal/runtime"
	"github.com/slurpy-films/probescript/internal/stdlib/stdlibutil"
)

// Invoker calls a Probescript function value from Go code, letting
// httpmod's net/http handlers run user script callbacks without
// httpmod importing internal/interp directly (the same dependency
// inversion internal/interp.ModuleResolver uses for imports).
type Invoker func(fn runtime.Value, args []runtime.Value) (runtime.Value, error)

func New(invoke Invoker) *runtime.Object {
	obj := runtime.NewObject()

	obj.Props_["get"] = &runtime.NativeFn{Name: "get", Fn: func(args []runtime.Value, this runtime.Value) (runtime.Value, error) {
		url, err := stdlibutil.StringArg(args, 0, "http.get")
		if err != nil {
			return nil, err
		}
		resp, err := http.Get(url)
		if err != nil {
			return nil, stdlibutil.Err("http.get: %s", err)
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, stdlibutil.Err("http.get: %s", err)
		}
		result := runtime.NewObject()
		result.Props_["status"] = runtime.NewNumber(float64(resp.StatusCode))
		result.Props_["body"] = runtime.NewString(string(body))
		return result, nil
	}}

	// http.listen(port, handler): handler(method, path, body) is called
	// per request in its own goroutine; its return value becomes the
	// response body.
	obj.Props_["listen"] = &runtime.NativeFn{Name: "listen", Fn: func(args []runtime.Value, this runtime.Value) (runtime.Value, error) {
		port, err := stdlibutil.NumberArg(args, 0, "http.listen")
		if err != nil {
			return nil, err
		}
		if len(args) < 2 {
			return nil, stdlibutil.Err("http.listen: missing handler argument")
		}
		handler := args[1]

		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			result, err := invoke(handler, []runtime.Value{
				runtime.NewString(r.Method),
				runtime.NewString(r.URL.Path),
				runtime.NewString(string(body)),
			})
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			io.WriteString(w, runtime.Stringify(result))
		})

		go http.ListenAndServe(":"+strconv.Itoa(int(port)), mux)
		return runtime.NewUndef(), nil
	}}

	// http.wsEcho(port, path) starts a WebSocket listener that echoes
	// every received message back to its sender, exercising
	// gorilla/websocket's Upgrader directly.
	obj.Props_["wsEcho"] = &runtime.NativeFn{Name: "wsEcho", Fn: func(args []runtime.Value, this runtime.Value) (runtime.Value, error) {
		port, err := stdlibutil.NumberArg(args, 0, "http.wsEcho")
		if err != nil {
			return nil, err
		}
		path, err := stdlibutil.StringArg(args, 1, "http.wsEcho")
		if err != nil {
			return nil, err
		}

		upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
		mux := http.NewServeMux()
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			conn, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			defer conn.Close()
			for {
				mt, msg, err := conn.ReadMessage()
				if err != nil {
					return
				}
				if err := conn.WriteMessage(mt, msg); err != nil {
					return
				}
			}
		})

		go http.ListenAndServe(":"+strconv.Itoa(int(port)), mux)
		return runtime.NewUndef(), nil
	}}

	return obj
}
