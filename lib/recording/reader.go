// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package recording

import (
	"bytes"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/hyprwatch/lib/codec"
)

// Reader reads records back from a recording.
type Reader struct {
	header   Header
	decoder  *codec.Decoder
	release  func()
	file     io.Closer
	digest   hash.Hash
	records  uint64
	trailer  *Trailer
	finished bool
}

// OpenFile opens the recording at path. Close releases the file.
func OpenFile(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening recording: %w", err)
	}
	reader, err := Open(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	reader.file = file
	return reader, nil
}

// Open reads and validates the header from r.
func Open(r io.Reader) (*Reader, error) {
	headerDecoder := codec.NewDecoder(r)
	var header Header
	if err := headerDecoder.Decode(&header); err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrNotRecording, err)
	}
	if header.Magic != Magic {
		return nil, fmt.Errorf("%w: magic %q", ErrNotRecording, header.Magic)
	}
	if header.Version != Version {
		return nil, fmt.Errorf("unsupported recording version %d (this build reads %d)", header.Version, Version)
	}

	// The header decoder may have read past the header; the body starts
	// with whatever it buffered.
	body := io.MultiReader(headerDecoder.Buffered(), r)
	decompressed, release, err := decompressor(body, header.Compression)
	if err != nil {
		return nil, err
	}
	return &Reader{
		header:  header,
		decoder: codec.NewDecoder(decompressed),
		release: release,
		digest:  blake3.New(),
	}, nil
}

// Header returns the recording's header.
func (reader *Reader) Header() Header {
	return reader.header
}

// Next returns the next record. After the last record it verifies the
// trailer and returns io.EOF, ErrTruncated if there is no trailer, or
// an error wrapping ErrDigestMismatch.
func (reader *Reader) Next() (Record, error) {
	if reader.finished {
		return Record{}, io.EOF
	}

	var entry Entry
	if err := reader.decoder.Decode(&entry); err != nil {
		reader.finished = true
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Record{}, ErrTruncated
		}
		return Record{}, fmt.Errorf("reading record %d: %w", reader.records+1, err)
	}

	switch {
	case entry.Record != nil:
		reader.digest.Write([]byte(entry.Record.Line))
		reader.digest.Write([]byte{'\n'})
		reader.records++
		return *entry.Record, nil
	case entry.Trailer != nil:
		reader.finished = true
		reader.trailer = entry.Trailer
		if err := reader.verify(*entry.Trailer); err != nil {
			return Record{}, err
		}
		return Record{}, io.EOF
	default:
		reader.finished = true
		return Record{}, fmt.Errorf("empty entry after record %d", reader.records)
	}
}

func (reader *Reader) verify(trailer Trailer) error {
	if trailer.Records != reader.records {
		return fmt.Errorf("%w: trailer counts %d records, read %d", ErrDigestMismatch, trailer.Records, reader.records)
	}
	if sum := reader.digest.Sum(nil); !bytes.Equal(sum, trailer.Digest) {
		return fmt.Errorf("%w: trailer %x, computed %x", ErrDigestMismatch, trailer.Digest, sum)
	}
	return nil
}

// Trailer returns the trailer once Next has reached it.
func (reader *Reader) Trailer() (Trailer, bool) {
	if reader.trailer == nil {
		return Trailer{}, false
	}
	return *reader.trailer, true
}

// Close releases decompressor state and, for readers made by OpenFile,
// the file.
func (reader *Reader) Close() error {
	reader.release()
	if reader.file != nil {
		return reader.file.Close()
	}
	return nil
}
