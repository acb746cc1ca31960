package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/google/vectorio"
	"github.com/klauspost/compress/zstd"
)

// maxIovecs stays under IOV_MAX for a single writev call
const maxIovecs = 1024

// reportSink is where the report goes. When file is set, lines are written
// with writev; otherwise they go through w.
type reportSink struct {
	file  *os.File
	w     io.Writer
	close func() error
}

// openSink opens the report destination. An empty path means stdout; a path
// ending in .zst is zstd-compressed.
func openSink(path string, stdout io.Writer) (*reportSink, error) {
	if path == "" || path == "-" {
		sink := &reportSink{w: stdout, close: func() error { return nil }}
		if f, ok := stdout.(*os.File); ok {
			sink.file = f
		}
		return sink, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", path, err)
	}

	if !strings.HasSuffix(path, ".zst") {
		return &reportSink{file: file, w: file, close: file.Close}, nil
	}

	buffered := bufio.NewWriter(file)
	enc, err := zstd.NewWriter(buffered, zstd.WithEncoderConcurrency(1))
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	return &reportSink{
		w: enc,
		close: func() error {
			if err := enc.Close(); err != nil {
				file.Close()
				return fmt.Errorf("failed to finish zstd stream: %w", err)
			}
			if err := buffered.Flush(); err != nil {
				file.Close()
				return fmt.Errorf("failed to flush output: %w", err)
			}
			return file.Close()
		},
	}, nil
}

// writeLines writes every chunk in order.
func (s *reportSink) writeLines(lines [][]byte) error {
	if s.file != nil {
		return writevLines(s.file, lines)
	}
	for _, line := range lines {
		if _, err := s.w.Write(line); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}

// writevLines writes lines with vectorio in IOV_MAX sized chunks, finishing
// any short write with a plain write.
func writevLines(file *os.File, lines [][]byte) error {
	for start := 0; start < len(lines); start += maxIovecs {
		end := min(start+maxIovecs, len(lines))
		chunk := lines[start:end]

		iovecs := make([]syscall.Iovec, 0, len(chunk))
		total := 0
		for _, line := range chunk {
			if len(line) == 0 {
				continue
			}
			iov := syscall.Iovec{Base: &line[0]}
			iov.SetLen(len(line))
			iovecs = append(iovecs, iov)
			total += len(line)
		}
		if len(iovecs) == 0 {
			continue
		}

		nw, err := vectorio.WritevRaw(uintptr(file.Fd()), iovecs)
		if err != nil {
			return fmt.Errorf("failed to write report with vectorio: %w", err)
		}
		if nw < total {
			if err := writeRemainder(file, chunk, nw); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeRemainder writes whatever a short writev left behind.
func writeRemainder(w io.Writer, chunk [][]byte, written int) error {
	for _, line := range chunk {
		if written >= len(line) {
			written -= len(line)
			continue
		}
		if _, err := w.Write(line[written:]); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		written = 0
	}
	return nil
}
