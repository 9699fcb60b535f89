package encoding

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// MaxStatementSize caps how much of an uploaded statement is read.
const MaxStatementSize = 1 << 20

var ErrTooLarge = errors.New("statement too large")

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// NewUTF8Reader returns a reader that decodes r to UTF-8.
//
// A BOM wins over everything else. Content that is already valid UTF-8 is
// passed through, otherwise chardet picks a Latin charset and Windows-1252 is
// the fallback, which is what Brazilian bank exports tend to use.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	buf, err := br.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), nil
	case utf8.Valid(buf):
		return br, nil
	}

	result, detectErr := chardet.NewTextDetector().DetectBest(buf)
	if detectErr == nil {
		switch result.Charset {
		case "UTF-8":
			return br, nil
		case "ISO-8859-9":
			return transform.NewReader(br, charmap.ISO8859_9.NewDecoder()), nil
		case "ISO-8859-15":
			return transform.NewReader(br, charmap.ISO8859_15.NewDecoder()), nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}

// ReadText reads a whole statement file as UTF-8 text with Unix line endings.
// Files over MaxStatementSize are rejected with ErrTooLarge.
func ReadText(r io.Reader) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxStatementSize+1))
	if err != nil {
		return "", fmt.Errorf("reading statement: %w", err)
	}

	if len(raw) > MaxStatementSize {
		return "", ErrTooLarge
	}

	decoded, err := NewUTF8Reader(bytes.NewReader(raw))
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(decoded)
	if err != nil {
		return "", fmt.Errorf("decoding statement: %w", err)
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	return strings.ReplaceAll(text, "\r", "\n"), nil
}
