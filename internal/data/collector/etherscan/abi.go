package etherscan

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/songzhibin97/tokenscope/internal/data"
)

// ERC-20 read selectors
const (
	selectorName        = "0x06fdde03"
	selectorSymbol      = "0x95d89b41"
	selectorDecimals    = "0x313ce567"
	selectorTotalSupply = "0x18160ddd"
	selectorOwner       = "0x8da5cb5b"

	wordSize = 32
)

func decodeHex(result string) ([]byte, error) {
	raw := strings.TrimPrefix(result, "0x")
	if raw == "" {
		return nil, fmt.Errorf("%w: empty return data", data.ErrUnexpectedResponse)
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid hex: %v", data.ErrUnexpectedResponse, err)
	}
	return b, nil
}

// decodeUint256 reads the first word of the return data.
func decodeUint256(result string) (*big.Int, error) {
	b, err := decodeHex(result)
	if err != nil {
		return nil, err
	}
	if len(b) < wordSize {
		return nil, fmt.Errorf("%w: uint256 needs %d bytes, got %d", data.ErrUnexpectedResponse, wordSize, len(b))
	}
	return new(big.Int).SetBytes(b[:wordSize]), nil
}

// decodeAddress reads an address returned in a single word.
func decodeAddress(result string) (string, error) {
	b, err := decodeHex(result)
	if err != nil {
		return "", err
	}
	if len(b) < wordSize {
		return "", fmt.Errorf("%w: address needs %d bytes, got %d", data.ErrUnexpectedResponse, wordSize, len(b))
	}
	return "0x" + hex.EncodeToString(b[12:wordSize]), nil
}

// decodeString handles both the dynamic string encoding and the legacy bytes32 one
// used by early tokens.
func decodeString(result string) (string, error) {
	b, err := decodeHex(result)
	if err != nil {
		return "", err
	}

	var out []byte
	switch {
	case len(b) == wordSize:
		out = bytes.TrimRight(b, "\x00")
	case len(b) >= 2*wordSize:
		offset := new(big.Int).SetBytes(b[:wordSize])
		if !offset.IsInt64() || offset.Int64() > int64(len(b)-wordSize) {
			return "", fmt.Errorf("%w: string offset out of range", data.ErrUnexpectedResponse)
		}
		start := int(offset.Int64())
		length := new(big.Int).SetBytes(b[start : start+wordSize])
		if !length.IsInt64() || length.Int64() > int64(len(b)-start-wordSize) {
			return "", fmt.Errorf("%w: string length out of range", data.ErrUnexpectedResponse)
		}
		out = b[start+wordSize : start+wordSize+int(length.Int64())]
	default:
		return "", fmt.Errorf("%w: cannot decode string from %d bytes", data.ErrUnexpectedResponse, len(b))
	}

	if !utf8.Valid(out) {
		return "", fmt.Errorf("%w: string is not utf-8", data.ErrUnexpectedResponse)
	}

	return strings.TrimSpace(strings.ReplaceAll(string(out), "\x00", "")), nil
}
