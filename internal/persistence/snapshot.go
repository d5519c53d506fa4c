package persistence

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"airline_tycoon/internal/models"
)

// EncodeSnapshot serialises a game state as zstd-compressed msgpack. Field
// names follow the json tags so the blob and the JSON save agree.
func EncodeSnapshot(st models.GameState) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %w", err)
	}
	defer zw.Close()

	enc := msgpack.NewEncoder(zw)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(&st); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close zstd writer: %w", err)
	}
	return buf.Bytes(), nil
}

func DecodeSnapshot(b []byte) (models.GameState, error) {
	zr, err := zstd.NewReader(bytes.NewReader(b), zstd.WithDecoderConcurrency(0))
	if err != nil {
		return models.GameState{}, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	var st models.GameState
	dec := msgpack.NewDecoder(zr)
	dec.SetCustomStructTag("json")
	if err := dec.Decode(&st); err != nil {
		return models.GameState{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return st, nil
}
