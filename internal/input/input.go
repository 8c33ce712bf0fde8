// Package input feeds files, stdin and hex literals to the checksum package
// for the sum command.
package input

import (
	"encoding/hex"
	"errors"
	"fmt"
	"inetsum/checksum"
	"inetsum/internal/pkg/buffer"
	"io"
	"strings"
)

type Result struct {
	Sum   uint16
	Bytes int64
}

// SumReader reads r to EOF in chunks of chunk bytes and joins the per-chunk
// partial sums. chunk must be even so each chunk starts at an even offset.
func SumReader(r io.Reader, chunk int) (Result, error) {
	if chunk < 2 || chunk&1 != 0 {
		return Result{}, fmt.Errorf("chunk size %d must be even and >= 2", chunk)
	}

	bp := buffer.Get(chunk)
	defer buffer.Put(bp)
	buf := *bp

	var res Result
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			res.Sum = checksum.Combine(res.Sum, checksum.Partial(buf[:n]))
			res.Bytes += int64(n)
		}
		switch {
		case err == nil:
			continue
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			// a short chunk is always the last one
			return res, nil
		default:
			return res, fmt.Errorf("read failed after %d bytes: %w", res.Bytes, err)
		}
	}
}

// ParseHex decodes a hex literal. Whitespace, ':' and '-' separators and a
// leading 0x are ignored.
func ParseHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ':', '-':
			return -1
		}
		return r
	}, s)
	b, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return b, nil
}

// Format renders a partial sum. With complement set, the one's complement a
// caller would store in a header field follows it.
func Format(sum uint16, format string, complement bool) string {
	var s string
	switch format {
	case "dec":
		s = fmt.Sprintf("%d", sum)
		if complement {
			s += fmt.Sprintf(" %d", ^sum)
		}
	case "both":
		s = fmt.Sprintf("0x%04x %d", sum, sum)
		if complement {
			s += fmt.Sprintf(" 0x%04x %d", ^sum, ^sum)
		}
	default:
		s = fmt.Sprintf("0x%04x", sum)
		if complement {
			s += fmt.Sprintf(" 0x%04x", ^sum)
		}
	}
	return s
}
