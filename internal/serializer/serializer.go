// Package serializer writes single laptops to files, either as indented JSON
// or as zstd-compressed JSON for compact binary snapshots.
package serializer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"

	"PCBook/internal/laptop"
)

func WriteJSONFile(l *laptop.Laptop, path string) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal laptop: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

func ReadJSONFile(path string) (*laptop.Laptop, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read json file: %w", err)
	}

	var l laptop.Laptop
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("unmarshal laptop: %w", err)
	}
	return &l, nil
}

func WriteBinaryFile(l *laptop.Laptop, path string) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshal laptop: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}
	defer enc.Close()

	if err := os.WriteFile(path, enc.EncodeAll(data, nil), 0o644); err != nil {
		return fmt.Errorf("write binary file: %w", err)
	}
	return nil
}

func ReadBinaryFile(path string) (*laptop.Laptop, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read binary file: %w", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer dec.Close()

	data, err := dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress laptop: %w", err)
	}

	var l laptop.Laptop
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("unmarshal laptop: %w", err)
	}
	return &l, nil
}
