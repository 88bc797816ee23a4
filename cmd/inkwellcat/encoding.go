package main

import (
	"bytes"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// detectEncoding sniffs a byte-order mark to pick a decoder, falling back to
// Windows-1252 for legacy single-byte files and UTF-8 otherwise. This is a
// minimal, best-effort binding of the "character-encoding transcoders"
// collaborator the buffer engine treats as external.
func detectEncoding(data []byte) encoding.Encoding {
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return unicode.UTF8
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	case looksLikeUTF8(data):
		return unicode.UTF8
	default:
		return charmap.Windows1252
	}
}

// looksLikeUTF8 reports whether data is valid UTF-8 with no stray
// continuation bytes, a cheap proxy for "probably not Windows-1252".
func looksLikeUTF8(data []byte) bool {
	i := 0
	for i < len(data) {
		b := data[i]
		switch {
		case b < 0x80:
			i++
		case b&0xE0 == 0xC0:
			if !continuationBytesValid(data, i, 1) {
				return false
			}
			i += 2
		case b&0xF0 == 0xE0:
			if !continuationBytesValid(data, i, 2) {
				return false
			}
			i += 3
		case b&0xF8 == 0xF0:
			if !continuationBytesValid(data, i, 3) {
				return false
			}
			i += 4
		default:
			return false
		}
	}
	return true
}

func continuationBytesValid(data []byte, start, count int) bool {
	if start+count >= len(data) {
		return false
	}
	for i := 1; i <= count; i++ {
		if data[start+i]&0xC0 != 0x80 {
			return false
		}
	}
	return true
}

// decodeFile transcodes data into a UTF-8 string, reporting the encoding it
// detected so a later write-back can re-encode in the same form.
func decodeFile(data []byte) (string, encoding.Encoding, error) {
	enc := detectEncoding(data)
	if enc == unicode.UTF8 {
		data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", nil, err
	}
	return string(decoded), enc, nil
}

// encodeFile transcodes a UTF-8 string back into enc's byte representation.
func encodeFile(s string, enc encoding.Encoding) ([]byte, error) {
	return enc.NewEncoder().Bytes([]byte(s))
}
