package rp2

import (
	"fmt"
	"io"
	"sync"
)

// Console writes "Info:"/"Error:" lines to a serial port.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console { return &Console{w: w} }

func (c *Console) Infof(format string, args ...any)  { c.line("Info: ", format, args) }
func (c *Console) Errorf(format string, args ...any) { c.line("Error: ", format, args) }

func (c *Console) line(prefix, format string, args []any) {
	if c == nil || c.w == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.w, prefix)
	_, _ = fmt.Fprintf(c.w, format, args...)
	_, _ = io.WriteString(c.w, "\r\n")
}
