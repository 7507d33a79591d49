package io

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"
	"strings"
)

// ROM_SIZE is the largest program image, in bytes.
const ROM_SIZE = 256

// Rom holds a program image, and converts it to and from `.ls8` text.
//
// An `.ls8` file has one byte per line, written as binary digits with the
// most significant bit first, optionally followed by any other text. Lines
// that do not begin with a binary digit are skipped.
type Rom struct {
	Data    []uint8
	Comment []string // Optional text for each byte of Data, used by Marshal.
}

var _ Channel = (*Rom)(nil)

// Defines returns an iter of defines for the channel.
func (rc *Rom) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"ROM_SIZE": fmt.Sprintf("%d", ROM_SIZE),
	})
}

// Rewind is a no-op; the image is re-read from the start by every Receive.
func (rc *Rom) Rewind() {
}

// Receive returns an iterator over the image bytes.
func (rc *Rom) Receive() iter.Seq[uint8] {
	return func(yield func(value uint8) bool) {
		for _, data := range rc.Data {
			if !yield(data) {
				return
			}
		}
	}
}

// Send always fails, as the ROM is read only.
func (rc *Rom) Send(value uint8) error {
	return ErrChannelReadOnly
}

// parseBinary parses the leading binary number of a line. Leading white
// space and a sign are permitted. Only the low 8 bits of the value are kept.
func parseBinary(line string) (value uint8, ok bool) {
	text := strings.TrimLeft(line, " \t\n\v\f\r")

	negate := false
	if len(text) > 0 && (text[0] == '+' || text[0] == '-') {
		negate = text[0] == '-'
		text = text[1:]
	}

	for _, c := range []byte(text) {
		if c != '0' && c != '1' {
			break
		}
		value = (value << 1) | (c - '0')
		ok = true
	}

	if negate {
		value = -value
	}

	return
}

// Unmarshal replaces the image with the bytes of an `.ls8` text stream.
func (rc *Rom) Unmarshal(input io.Reader) (err error) {
	rc.Data = rc.Data[:0]
	rc.Comment = nil

	reader := bufio.NewReader(input)
	for {
		var line string
		line, err = reader.ReadString('\n')
		if len(line) > 0 {
			value, ok := parseBinary(line)
			if ok {
				if len(rc.Data) == ROM_SIZE {
					return ErrRomFull
				}
				rc.Data = append(rc.Data, value)
			}
		}
		if errors.Is(err, io.EOF) {
			err = nil
			return
		}
		if err != nil {
			return
		}
	}
}

// Marshal writes the image as `.ls8` text, one byte per line, with the
// matching Comment text if any.
func (rc *Rom) Marshal(output io.Writer) (err error) {
	writer := bufio.NewWriter(output)

	for n, data := range rc.Data {
		var comment string
		if n < len(rc.Comment) {
			comment = rc.Comment[n]
		}
		if len(comment) != 0 {
			_, err = fmt.Fprintf(writer, "%08b # %v\n", data, comment)
		} else {
			_, err = fmt.Fprintf(writer, "%08b\n", data)
		}
		if err != nil {
			return
		}
	}

	err = writer.Flush()

	return
}
