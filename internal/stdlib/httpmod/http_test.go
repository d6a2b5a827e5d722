package httpmod

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/slurpy-films/probescript/internal/runtime"
)

func noopInvoker(fn runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return runtime.NewUndef(), nil
}

func TestHttpGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, "pong")
	}))
	defer srv.Close()

	obj := New(noopInvoker)
	fn := obj.Props_["get"].(*runtime.NativeFn)
	v, err := fn.Fn([]runtime.Value{runtime.NewString(srv.URL)}, nil)
	if err != nil {
		t.Fatalf("get returned error: %v", err)
	}
	result, ok := v.(*runtime.Object)
	if !ok {
		t.Fatalf("expected *runtime.Object, got %T", v)
	}
	if status := result.Props_["status"].(*runtime.Number).Value; status != http.StatusCreated {
		t.Fatalf("expected status %d, got %v", http.StatusCreated, status)
	}
	if body := result.Props_["body"].(*runtime.String).Value; body != "pong" {
		t.Fatalf("expected body %q, got %q", "pong", body)
	}
}

func TestHttpGetMissingArg(t *testing.T) {
	obj := New(noopInvoker)
	fn := obj.Props_["get"].(*runtime.NativeFn)
	if _, err := fn.Fn(nil, nil); err == nil {
		t.Fatalf("expected an error for a missing url argument")
	}
}

func TestHttpGetUnreachable(t *testing.T) {
	obj := New(noopInvoker)
	fn := obj.Props_["get"].(*runtime.NativeFn)
	if _, err := fn.Fn([]runtime.Value{runtime.NewString("http://127.0.0.1:1")}, nil); err == nil {
		t.Fatalf("expected an error for an unreachable url")
	}
}

// TestHttpListenInvokesHandler starts a real listener and confirms a
// request reaches the script handler via the Invoker, whose return
// value becomes the response body.
func TestHttpListenInvokesHandler(t *testing.T) {
	const port = 18732
	invoke := func(fn runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.NewString("handled"), nil
	}

	obj := New(invoke)
	fn := obj.Props_["listen"].(*runtime.NativeFn)
	if _, err := fn.Fn([]runtime.Value{runtime.NewNumber(port), &runtime.NativeFn{Name: "handler"}}, nil); err != nil {
		t.Fatalf("listen returned error: %v", err)
	}

	url := fmt.Sprintf("http://127.0.0.1:%d/", port)
	var resp *http.Response
	var err error
	for i := 0; i < 50; i++ {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never became reachable: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "handled" {
		t.Fatalf("expected %q, got %q", "handled", string(body))
	}
}
