// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package recording

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bureau-foundation/hyprwatch/lib/clock"
	"github.com/bureau-foundation/hyprwatch/lib/codec"
	"github.com/bureau-foundation/hyprwatch/lib/eventsink"
	"github.com/bureau-foundation/hyprwatch/lib/hyprevent"
	"github.com/bureau-foundation/hyprwatch/lib/testutil"
)

var start = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

var sampleLines = []string{
	"workspacev2>>1,main",
	"openwindow>>a1,1,kitty,~/src",
	"garbage",
	"activewindow>>kitty,~/src",
	"movewindow>>addressonly",
	"configreloaded>>",
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// record writes sampleLines into a recording held in memory.
func record(t *testing.T, compression CompressionTag) []byte {
	t.Helper()
	var buffer bytes.Buffer
	recorder, err := NewRecorder(&buffer, Options{
		Compression: compression,
		Signature:   "sig_1700000000_abc",
		Clock:       clock.Fake(start),
	})
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	for index, line := range sampleLines {
		err := recorder.Write(Record{
			Sequence:   uint64(index + 1),
			ReceivedAt: start.Add(time.Duration(index) * time.Second),
			Line:       line,
		})
		if err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := recorder.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return buffer.Bytes()
}

func TestRoundTripEachCompression(t *testing.T) {
	for _, compression := range []CompressionTag{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(compression.String(), func(t *testing.T) {
			data := record(t, compression)

			reader, err := Open(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer reader.Close()

			header := reader.Header()
			if header.Magic != Magic || header.Version != Version || header.Compression != compression {
				t.Errorf("Header = %+v", header)
			}
			if header.Signature != "sig_1700000000_abc" || header.Session == uuid.Nil {
				t.Errorf("Header signature/session = %q/%v", header.Signature, header.Session)
			}
			if !header.StartedAt.Equal(start) {
				t.Errorf("StartedAt = %v, want %v", header.StartedAt, start)
			}

			for index, want := range sampleLines {
				got, err := reader.Next()
				if err != nil {
					t.Fatalf("Next %d: %v", index, err)
				}
				if got.Line != want || got.Sequence != uint64(index+1) {
					t.Errorf("record %d = %+v, want line %q", index, got, want)
				}
				if wantTime := start.Add(time.Duration(index) * time.Second); !got.ReceivedAt.Equal(wantTime) {
					t.Errorf("record %d ReceivedAt = %v, want %v", index, got.ReceivedAt, wantTime)
				}
			}
			if _, err := reader.Next(); !errors.Is(err, io.EOF) {
				t.Fatalf("Next after last record = %v, want io.EOF", err)
			}
			trailer, ok := reader.Trailer()
			if !ok || trailer.Records != uint64(len(sampleLines)) || len(trailer.Digest) != 32 {
				t.Errorf("Trailer = %+v (ok %v)", trailer, ok)
			}
		})
	}
}

func TestCompressionShrinksRepetitiveStreams(t *testing.T) {
	write := func(compression CompressionTag) int {
		var buffer bytes.Buffer
		recorder, err := NewRecorder(&buffer, Options{Compression: compression, Clock: clock.Fake(start)})
		if err != nil {
			t.Fatalf("NewRecorder: %v", err)
		}
		for sequence := uint64(1); sequence <= 500; sequence++ {
			recorder.Write(Record{Sequence: sequence, ReceivedAt: start, Line: "activewindow>>kitty,~/src/hyprwatch"})
		}
		recorder.Close()
		return buffer.Len()
	}
	plain := write(CompressionNone)
	for _, compression := range []CompressionTag{CompressionLZ4, CompressionZstd} {
		if size := write(compression); size >= plain {
			t.Errorf("%s recording is %d bytes, uncompressed %d", compression, size, plain)
		}
	}
}

// rewrite decodes a complete uncompressed recording, lets edit change
// its entries, and encodes it again.
func rewrite(t *testing.T, data []byte, edit func([]Entry) []Entry) []byte {
	t.Helper()
	decoder := codec.NewDecoder(bytes.NewReader(data))
	var header Header
	if err := decoder.Decode(&header); err != nil {
		t.Fatalf("decoding header: %v", err)
	}
	var entries []Entry
	for {
		var entry Entry
		if err := decoder.Decode(&entry); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			t.Fatalf("decoding entry: %v", err)
		}
		entries = append(entries, entry)
	}

	var buffer bytes.Buffer
	encoder := codec.NewEncoder(&buffer)
	encoder.Encode(header)
	for _, entry := range edit(entries) {
		encoder.Encode(entry)
	}
	return buffer.Bytes()
}

func readAll(t *testing.T, data []byte) (int, error) {
	t.Helper()
	reader, err := Open(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reader.Close()
	count := 0
	for {
		_, err := reader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return count, nil
			}
			return count, err
		}
		count++
	}
}

func TestDetectsAlteredLine(t *testing.T) {
	data := rewrite(t, record(t, CompressionNone), func(entries []Entry) []Entry {
		entries[1].Record.Line = "openwindow>>a1,1,kitty,tampered"
		return entries
	})
	count, err := readAll(t, data)
	if !errors.Is(err, ErrDigestMismatch) {
		t.Fatalf("error = %v, want ErrDigestMismatch", err)
	}
	if count != len(sampleLines) {
		t.Errorf("read %d records before the mismatch, want %d", count, len(sampleLines))
	}
}

func TestDetectsDroppedRecord(t *testing.T) {
	data := rewrite(t, record(t, CompressionNone), func(entries []Entry) []Entry {
		return append(entries[:2], entries[3:]...)
	})
	if _, err := readAll(t, data); !errors.Is(err, ErrDigestMismatch) {
		t.Errorf("error = %v, want ErrDigestMismatch", err)
	}
}

func TestDetectsMissingTrailer(t *testing.T) {
	data := rewrite(t, record(t, CompressionNone), func(entries []Entry) []Entry {
		return entries[:len(entries)-1]
	})
	if _, err := readAll(t, data); !errors.Is(err, ErrTruncated) {
		t.Errorf("error = %v, want ErrTruncated", err)
	}
}

func TestOpenRejectsOtherFiles(t *testing.T) {
	foreign, _ := codec.Marshal(map[string]any{"magic": "something-else", "version": 1})
	if _, err := Open(bytes.NewReader(foreign)); !errors.Is(err, ErrNotRecording) {
		t.Errorf("foreign CBOR: error = %v, want ErrNotRecording", err)
	}
	if _, err := Open(bytes.NewReader([]byte("workspace>>1\n"))); !errors.Is(err, ErrNotRecording) {
		t.Errorf("text file: error = %v, want ErrNotRecording", err)
	}

	future, _ := codec.Marshal(Header{Magic: Magic, Version: Version + 1})
	if _, err := Open(bytes.NewReader(future)); err == nil {
		t.Error("future version accepted")
	}
}

func TestCreateAndOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.hwr")
	recorder, err := Create(path, Options{Compression: CompressionZstd})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	ctx := context.Background()
	recorder.HandleEvent(ctx, eventsink.Delivery{Sequence: 1, ReceivedAt: start, Line: "submap>>resize", Event: hyprevent.Submap{Name: "resize"}})
	recorder.HandleFailure(ctx, eventsink.Failure{Sequence: 2, ReceivedAt: start, Line: "garbage", Err: &hyprevent.FormatError{Line: "garbage"}})
	if recorder.Records() != 2 {
		t.Errorf("Records = %d, want 2", recorder.Records())
	}
	if err := recorder.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := recorder.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := recorder.Write(Record{Line: "late"}); !errors.Is(err, eventsink.ErrClosed) {
		t.Errorf("Write after Close = %v, want ErrClosed", err)
	}

	reader, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer reader.Close()
	if reader.Header().Session != recorder.Header().Session {
		t.Errorf("session = %v, want %v", reader.Header().Session, recorder.Header().Session)
	}
	first, _ := reader.Next()
	second, _ := reader.Next()
	if first.Line != "submap>>resize" || second.Line != "garbage" {
		t.Errorf("records = %q, %q", first.Line, second.Line)
	}
}

func TestReplay(t *testing.T) {
	reader, err := Open(bytes.NewReader(record(t, CompressionLZ4)))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reader.Close()

	sink := eventsink.NewChannel(len(sampleLines))
	stats, err := Replay(context.Background(), reader, ReplayOptions{Sink: sink, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if stats != (ReplayStats{Records: 6, Events: 4, Failures: 2}) {
		t.Errorf("stats = %+v", stats)
	}

	sink.Close()
	var sequences []uint64
	for item := range sink.C() {
		sequences = append(sequences, item.Sequence())
		if item.Delivery != nil && item.Delivery.Sequence == 2 {
			want := hyprevent.OpenWindow{Address: "a1", Workspace: "1", Class: "kitty", Title: "~/src"}
			if item.Delivery.Event != want {
				t.Errorf("replayed event = %#v, want %#v", item.Delivery.Event, want)
			}
			if !item.Delivery.ReceivedAt.Equal(start.Add(time.Second)) {
				t.Errorf("replayed ReceivedAt = %v", item.Delivery.ReceivedAt)
			}
		}
	}
	for index, sequence := range sequences {
		if sequence != uint64(index+1) {
			t.Fatalf("sequences = %v, want 1..6 in order", sequences)
		}
	}
}

func TestReplayPacing(t *testing.T) {
	reader, err := Open(bytes.NewReader(record(t, CompressionNone)))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reader.Close()

	fake := clock.Fake(start)
	sink := eventsink.NewChannel(len(sampleLines))
	done := make(chan error, 1)
	go func() {
		_, err := Replay(context.Background(), reader, ReplayOptions{Sink: sink, Speed: 2, Clock: fake, Logger: discardLogger()})
		done <- err
	}()

	testutil.RequireReceive(t, sink.C(), 5*time.Second, "first record is not delayed")
	for range len(sampleLines) - 1 {
		// Records are one second apart; at double speed each waits 500ms.
		fake.WaitForTimers(1)
		fake.Advance(500 * time.Millisecond)
		testutil.RequireReceive(t, sink.C(), 5*time.Second, "paced record")
	}
	if err := testutil.RequireReceive(t, done, 5*time.Second, "replay finished"); err != nil {
		t.Errorf("Replay: %v", err)
	}
}

func TestReplayCancelled(t *testing.T) {
	reader, err := Open(bytes.NewReader(record(t, CompressionNone)))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats, err := Replay(ctx, reader, ReplayOptions{Sink: eventsink.Discard, Logger: discardLogger()})
	if !errors.Is(err, context.Canceled) || stats.Records != 0 {
		t.Errorf("Replay = %+v, %v; want no records and context.Canceled", stats, err)
	}
}

func TestParseCompressionTag(t *testing.T) {
	for _, name := range []string{"none", "lz4", "zstd"} {
		tag, err := ParseCompressionTag(name)
		if err != nil {
			t.Fatalf("ParseCompressionTag(%q): %v", name, err)
		}
		if tag.String() != name {
			t.Errorf("ParseCompressionTag(%q).String() = %q", name, tag.String())
		}
	}
	if _, err := ParseCompressionTag("gzip"); err == nil {
		t.Error("ParseCompressionTag(gzip) succeeded")
	}
	if got := CompressionTag(9).String(); got != "unknown(9)" {
		t.Errorf("String = %q", got)
	}
}
