// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package avsc

import (
	"fmt"

	"github.com/hamba/avro/v2"
)

type Algorithm string

const (
	CRC64  Algorithm = "crc64"
	MD5    Algorithm = "md5"
	SHA256 Algorithm = "sha256"
)

func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case CRC64, MD5, SHA256:
		return Algorithm(s), nil
	}
	return "", fmt.Errorf("unknown fingerprint algorithm %q (expected crc64, md5 or sha256)", s)
}

func (a Algorithm) fingerprintType() avro.FingerprintType {
	switch a {
	case MD5:
		return avro.MD5
	case SHA256:
		return avro.SHA256
	}
	return avro.CRC64Avro
}

// Verify checks that every document is accepted by an independent Avro
// implementation. A document may refer to named types declared by any other
// document in the set.
func Verify(docs ...[]byte) error {
	_, err := Fingerprints(docs, CRC64)
	return err
}

// Fingerprints parses each document like Verify and returns the fingerprint
// of its Parsing Canonical Form, in document order.
func Fingerprints(docs [][]byte, algo Algorithm) ([][]byte, error) {
	cache := &avro.SchemaCache{}
	out := make([][]byte, len(docs))
	pending := make([]int, len(docs))
	for ii := range docs {
		pending[ii] = ii
	}

	// Documents referring to a type that is not yet cached are retried once
	// another document has made progress.
	parseErrs := make(map[int]error)
	for len(pending) > 0 {
		var retry []int
		for _, ii := range pending {
			parsed, err := avro.ParseWithCache(string(docs[ii]), "", cache)
			if err != nil {
				parseErrs[ii] = err
				retry = append(retry, ii)
				continue
			}
			fingerprint, err := parsed.FingerprintUsing(algo.fingerprintType())
			if err != nil {
				return nil, fmt.Errorf("avsc: document %d: %w", ii, err)
			}
			out[ii] = fingerprint
		}
		if len(retry) == len(pending) {
			return nil, fmt.Errorf("avsc: document %d: %w", retry[0], parseErrs[retry[0]])
		}
		pending = retry
	}
	return out, nil
}
