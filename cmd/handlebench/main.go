// Command handlebench is a small demonstration binary that exercises
// the handle package end to end — value and array construction, weak
// expiry, callable wrappers, and the atomic cell's Store and Load — and
// prints colored pass/fail diagnostics,
// the way soloos/sdbone's apps/solodbd colors its startup banner.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"soloos/handle"
)

var stdout = func() *os.File { return os.Stdout }()

func main() {
	out := colorable.NewColorable(stdout)
	color := isatty.IsTerminal(stdout.Fd()) || isatty.IsCygwinTerminal(stdout.Fd())

	ok := true
	ok = report(out, color, "refcount", checkRefcount) && ok
	ok = report(out, color, "weak-expiry", checkWeakExpiry) && ok
	ok = report(out, color, "array", checkArray) && ok
	ok = report(out, color, "callable", checkCallable) && ok
	ok = report(out, color, "atomic-cell", checkAtomicCell) && ok

	if !ok {
		os.Exit(1)
	}
}

func report(out io.Writer, color bool, name string, fn func() error) bool {
	if err := fn(); err != nil {
		if color {
			fmt.Fprintf(out, "\x1b[31mFAIL\x1b[0m %-16s %v\n", name, err)
		} else {
			fmt.Fprintf(out, "FAIL %-16s %v\n", name, err)
		}
		return false
	}
	if color {
		fmt.Fprintf(out, "\x1b[32mPASS\x1b[0m %-16s\n", name)
	} else {
		fmt.Fprintf(out, "PASS %-16s\n", name)
	}
	return true
}

func checkRefcount() error {
	a := handle.New(42)
	b := a.Clone()
	c := a.Clone()
	if a.StrongCount() != 3 {
		return fmt.Errorf("want strong=3, got %d", a.StrongCount())
	}
	b.Close()
	c.Close()
	a.Close()
	return nil
}

func checkWeakExpiry() error {
	a := handle.New("hello")
	w := handle.NewWeak(a)
	if w.Expired() {
		return fmt.Errorf("weak expired too early")
	}
	a.Close()
	if !w.Expired() {
		return fmt.Errorf("weak did not expire")
	}
	if _, ok := w.Lock(); ok {
		return fmt.Errorf("lock succeeded on expired weak")
	}
	w.Close()
	return nil
}

func checkArray() error {
	arr := handle.NewArray[int](3)
	defer arr.Close()
	if arr.Len() != 3 {
		return fmt.Errorf("want len=3, got %d", arr.Len())
	}
	if _, err := arr.At(3); err == nil {
		return fmt.Errorf("expected out-of-range error")
	}
	return nil
}

func checkCallable() error {
	seed := 100
	f := handle.NewFn(func(x int) int {
		seed++
		return x + seed - 1
	})
	defer f.Close()
	v1, _ := f.Call(1)
	v2, _ := f.Call(1)
	if v1 != 101 || v2 != 102 {
		return fmt.Errorf("want 101,102 got %d,%d", v1, v2)
	}
	return nil
}

func checkAtomicCell() error {
	var cell handle.Cell
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	h := handle.New("payload")
	if _, err := cell.Store(ctx, h); err != nil {
		return err
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		loaded, err := cell.Load(ctx)
		if err == nil {
			loaded.Close()
		}
	}()
	wg.Wait()

	old, err := cell.Load(ctx)
	if err != nil {
		return err
	}
	defer old.Close()
	if s := handle.Unchecked[string](old); s == nil || *s != "payload" {
		return fmt.Errorf("unexpected cell contents")
	}
	return nil
}
