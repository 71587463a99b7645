// Package script provides the Lisp command console for the viewer.
// It wraps zygomys in a sandboxed environment whose builtins drive the
// viewer's verbs, so a running session can add, recolor, hide and select
// objects from typed commands.
package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/prism/pkg/viewer"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in console input.
type EvalError struct {
	Line    int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalTimeout is the hard limit for a single console command.
const EvalTimeout = 5 * time.Second

// Console wraps the zygomys interpreter bound to one viewer. Unlike a
// batch evaluator it keeps its environment alive between commands so
// user definitions persist; a timed-out command poisons the running
// environment, so the console rebuilds it and user state is lost.
type Console struct {
	mu     sync.Mutex
	viewer *viewer.Viewer
	env    *zygo.Zlisp
}

// NewConsole creates a console over a viewer with a fresh sandboxed
// environment. Sandbox mode keeps console input away from the
// filesystem and syscalls.
func NewConsole(v *viewer.Viewer) *Console {
	c := &Console{viewer: v}
	c.env = c.freshEnv()
	return c
}

func (c *Console) freshEnv() *zygo.Zlisp {
	env := zygo.NewZlispSandbox()
	registerBuiltins(env, c.viewer)
	return env
}

type evalResult struct {
	value  zygo.Sexp
	errors []EvalError
	err    error
}

// Eval runs one console command and returns the printed form of its
// result. Parse and runtime errors come back as EvalError values; a
// timeout or panic is a fatal error and resets the environment.
// Commands serialize on the console mutex: a timed-out goroutine keeps
// running against the discarded environment and its late result is
// dropped on the buffered channel.
func (c *Console) Eval(source string) (string, []EvalError, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(source) == "" {
		return "", nil, nil
	}

	ch := make(chan evalResult, 1)
	env := c.env
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		ch <- run(env, source)
	}()

	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if res.err != nil {
			c.env = c.freshEnv()
			return "", nil, res.err
		}
		out := ""
		if res.value != nil && res.value != zygo.SexpNull {
			out = res.value.SexpString(nil)
		}
		return out, res.errors, nil
	case <-timer.C:
		c.env = c.freshEnv()
		return "", nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}

func run(env *zygo.Zlisp, source string) evalResult {
	if err := env.LoadString(preprocess(source)); err != nil {
		return evalResult{errors: parseZygoError(err)}
	}
	val, err := env.Run()
	if err != nil {
		return evalResult{errors: parseZygoError(err)}
	}
	return evalResult{value: val}
}

// linePattern matches zygomys messages of the form "Error on line N: ...".
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

func parseZygoError(err error) []EvalError {
	msg := err.Error()
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}

// kwPrefix marks keyword arguments after preprocessing.
const kwPrefix = "__kw_"

// preprocess rewrites console source before it reaches zygomys:
// :keyword tokens become tagged string literals, ; comments become //
// comments, and hyphens inside identifiers become underscores since
// zygomys reads a bare hyphen as subtraction. String literals pass
// through untouched.
func preprocess(source string) string {
	out := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		switch {
		case b[i] == '"':
			out = append(out, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					out = append(out, b[i], b[i+1])
					i += 2
					continue
				}
				out = append(out, b[i])
				i++
			}
			if i < len(b) {
				out = append(out, b[i])
				i++
			}
		case b[i] == ';':
			out = append(out, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}
		case b[i] == ':' && i+1 < len(b) && b[i+1] == '=':
			out = append(out, ':', '=')
			i += 2
		case b[i] == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j
		case b[i] == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out = append(out, '_')
			i++
		default:
			out = append(out, b[i])
			i++
		}
	}
	return string(out)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
