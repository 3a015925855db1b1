package transport

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"businessmath-mcp/internal/server"
)

// maxFrameSize bounds one stdio frame; oversized frames end the session.
const maxFrameSize = 10 * 1024 * 1024

// Stdio carries JSON-RPC frames over standard input and output, one frame
// per line. Requests are served strictly in order: each response frame is
// written before the next request is read, so the loop never buffers
// unbounded output for a slow consumer.
type Stdio struct {
	handler *server.Handler
	in      io.Reader
	out     io.Writer
	logger  zerolog.Logger
}

// NewStdio creates a stdio transport over os.Stdin and os.Stdout.
func NewStdio(h *server.Handler, logger zerolog.Logger) *Stdio {
	return NewStdioWithStreams(h, os.Stdin, os.Stdout, logger)
}

// NewStdioWithStreams creates a stdio transport over arbitrary streams.
func NewStdioWithStreams(h *server.Handler, in io.Reader, out io.Writer, logger zerolog.Logger) *Stdio {
	return &Stdio{
		handler: h,
		in:      in,
		out:     out,
		logger:  logger.With().Str("component", "stdio_transport").Logger(),
	}
}

// Run serves frames until EOF, a read error, or context cancellation.
// EOF is a normal shutdown and returns nil.
func (t *Stdio) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(t.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)

	t.logger.Info().Msg("Serving on stdio")

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		resp := t.handler.HandleFrame(ctx, line)
		if resp == nil {
			continue
		}
		if err := t.writeFrame(resp); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stdio read failed: %w", err)
	}
	t.logger.Info().Msg("Client closed stdin, shutting down")
	return nil
}

func (t *Stdio) writeFrame(frame []byte) error {
	if _, err := t.out.Write(frame); err != nil {
		return fmt.Errorf("stdio write failed: %w", err)
	}
	if _, err := t.out.Write([]byte{'\n'}); err != nil {
		return fmt.Errorf("stdio write failed: %w", err)
	}
	return nil
}
