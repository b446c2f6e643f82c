package count

import (
	"fmt"
	"sync/atomic"
)

type Count struct {
	Reads       atomic.Int64
	ReadErrors  atomic.Int64
	Writes      atomic.Int64
	WriteErrors atomic.Int64
	Bytes       atomic.Int64
}

func (c *Count) Summary(kind string) string {
	readsLine := fmt.Sprintf("[%s] %d reads, %d errors", kind, c.Reads.Load(), c.ReadErrors.Load())
	writesLine := fmt.Sprintf("[%s] %d writes, %d errors, %d bytes", kind, c.Writes.Load(), c.WriteErrors.Load(), c.Bytes.Load())

	return fmt.Sprintf("%s\n%s", readsLine, writesLine)
}
