// Package jsengine runs learner scripts written in JavaScript on an embedded
// goja interpreter.
//
// One [Engine] owns one interpreter. It is started lazily and shared by all
// runs; each run binds a fresh bridge into a freshly compiled program, so
// nothing the script declares survives into the next run.
package jsengine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/require"
	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/gridrun/bridge"
	"github.com/jonwraymond/gridrun/code"
)

const (
	// maxCallStackSize bounds script recursion.
	maxCallStackSize = 4096

	// randSeed seeds Math.random at the start of every run.
	randSeed = 1
)

// fixedEpoch is what Date reports inside scripts.
var fixedEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedEpoch }

func newRandSource() goja.RandSource {
	return rand.New(rand.NewPCG(randSeed, randSeed)).Float64
}

// Languages lists the language names accepted by the engine.
var Languages = []string{"javascript", "js"}

// Option configures an Engine.
type Option func(*Engine)

// WithSetup registers a hook that runs against the interpreter while it
// boots. A failing hook fails the boot; the next Warm or Execute retries.
func WithSetup(fn func(vm *goja.Runtime) error) Option {
	return func(e *Engine) {
		e.setup = append(e.setup, fn)
	}
}

// WithLogger sets the logger used for interpreter lifecycle events.
func WithLogger(l code.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// Engine is a goja-backed code.Engine.
type Engine struct {
	setup  []func(vm *goja.Runtime) error
	logger code.Logger

	group singleflight.Group
	boots atomic.Int32

	// stateMu guards vm and baseline.
	stateMu  sync.Mutex
	vm       *goja.Runtime
	baseline map[string]struct{}

	// runMu serializes runs. out is the active run's stdout.
	runMu sync.Mutex
	out   io.Writer
}

// New creates an Engine. The interpreter is not started until the first
// Warm or Execute call.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Warm starts the interpreter if it is not running yet. Concurrent callers
// share a single boot.
func (e *Engine) Warm(ctx context.Context) error {
	if e.ready() {
		return nil
	}
	ch := e.group.DoChan("runtime", func() (any, error) {
		return nil, e.boot()
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ready reports whether the interpreter has booted.
func (e *Engine) Ready() bool {
	return e.ready()
}

func (e *Engine) ready() bool {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	return e.vm != nil
}

func (e *Engine) boot() error {
	if e.ready() {
		return nil
	}
	e.boots.Add(1)

	vm := goja.New()
	vm.SetMaxCallStackSize(maxCallStackSize)
	registry := require.NewRegistry()
	registry.RegisterNativeModule(console.ModuleName, console.RequireWithPrinter(printer{e: e}))
	registry.Enable(vm)
	console.Enable(vm)

	for _, fn := range e.setup {
		if err := fn(vm); err != nil {
			if e.logger != nil {
				e.logger.Error("interpreter boot failed", "err", err)
			}
			return fmt.Errorf("%w: %w", code.ErrRuntimeUnavailable, err)
		}
	}

	baseline := make(map[string]struct{})
	for _, k := range vm.GlobalObject().Keys() {
		baseline[k] = struct{}{}
	}

	e.stateMu.Lock()
	e.vm = vm
	e.baseline = baseline
	e.stateMu.Unlock()

	if e.logger != nil {
		e.logger.Info("interpreter ready", "engine", "goja")
	}
	return nil
}

// Execute runs params.Code with b bound as move, log and print.
func (e *Engine) Execute(ctx context.Context, params code.ExecuteParams, b bridge.Bridge) error {
	if params.Language != "" && !supported(params.Language) {
		return fmt.Errorf("%w: %q", code.ErrUnsupportedLanguage, params.Language)
	}
	if err := e.Warm(ctx); err != nil {
		return err
	}

	e.runMu.Lock()
	defer e.runMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	e.stateMu.Lock()
	vm := e.vm
	e.stateMu.Unlock()

	prg, err := goja.Compile(programName, wrap(params.Code), false)
	if err != nil {
		return syntaxError(err)
	}

	// Every run sees the same random sequence and clock.
	vm.SetRandSource(newRandSource())
	vm.SetTimeSource(fixedNow)

	e.out = b.Stdout()
	defer func() { e.out = nil }()
	defer e.resetGlobals(vm)

	// Interrupt the VM when the context ends. The watcher must exit before
	// the interrupt flag is cleared.
	stop := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-stop:
		}
	}()
	defer func() {
		close(stop)
		<-exited
		vm.ClearInterrupt()
	}()

	r := &run{vm: vm, b: b}
	err = r.call(prg)
	if err == nil {
		return nil
	}

	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		return &code.CodeError{Message: "execution interrupted", Err: err}
	}
	var overflow *goja.StackOverflowError
	if errors.As(err, &overflow) {
		return stackOverflowError(overflow)
	}
	var exc *goja.Exception
	if errors.As(err, &exc) {
		return exceptionError(exc, r.thrown)
	}
	return &code.CodeError{Message: err.Error(), Err: err}
}

// resetGlobals removes globals the script created by assignment so they do
// not leak into the next run.
func (e *Engine) resetGlobals(vm *goja.Runtime) {
	global := vm.GlobalObject()
	for _, k := range global.Keys() {
		if _, ok := e.baseline[k]; !ok {
			_ = global.Delete(k)
		}
	}
}

func supported(language string) bool {
	for _, l := range Languages {
		if strings.EqualFold(l, language) {
			return true
		}
	}
	return false
}

// run holds the bindings of a single execution.
type run struct {
	vm     *goja.Runtime
	b      bridge.Bridge
	thrown []thrownError
}

func (r *run) call(prg *goja.Program) error {
	outer, err := r.vm.RunProgram(prg)
	if err != nil {
		return err
	}
	factory, ok := goja.AssertFunction(outer)
	if !ok {
		return errors.New("jsengine: program did not evaluate to a function")
	}
	inner, err := factory(goja.Undefined(),
		r.vm.ToValue(r.move),
		r.vm.ToValue(r.log),
		r.vm.ToValue(r.print),
	)
	if err != nil {
		return err
	}
	main, ok := goja.AssertFunction(inner)
	if !ok {
		return errors.New("jsengine: program did not return a function")
	}
	_, err = main(goja.Undefined())
	return err
}

// throw raises err into the script as a catchable exception.
func (r *run) throw(err error) {
	obj := r.vm.NewGoError(err)
	r.thrown = append(r.thrown, thrownError{value: obj, err: err})
	panic(obj)
}

func (r *run) move(call goja.FunctionCall) goja.Value {
	direction := call.Argument(0).String()
	steps := 1
	if arg := call.Argument(1); !goja.IsUndefined(arg) && !goja.IsNull(arg) {
		n, ok := wholeNumber(arg)
		if !ok {
			r.throw(argumentError("steps", arg))
		}
		steps = n
	}
	if err := r.b.Move(direction, steps); err != nil {
		r.throw(err)
	}
	return goja.Undefined()
}

// wholeNumber accepts JavaScript numbers with no fractional part.
func wholeNumber(v goja.Value) (int, bool) {
	switch n := v.Export().(type) {
	case int64:
		return int(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

func (r *run) log(call goja.FunctionCall) goja.Value {
	r.b.Log(call.Argument(0).String())
	return goja.Undefined()
}

func (r *run) print(call goja.FunctionCall) goja.Value {
	parts := make([]string, len(call.Arguments))
	for i, arg := range call.Arguments {
		parts[i] = arg.String()
	}
	_, _ = io.WriteString(r.b.Stdout(), strings.Join(parts, " ")+"\n")
	return goja.Undefined()
}

// printer routes console output to the active run's stdout.
type printer struct {
	e *Engine
}

func (p printer) write(s string) {
	if p.e.out != nil {
		_, _ = io.WriteString(p.e.out, s+"\n")
	}
}

func (p printer) Log(s string)   { p.write(s) }
func (p printer) Warn(s string)  { p.write(s) }
func (p printer) Error(s string) { p.write(s) }

var _ code.Engine = (*Engine)(nil)
