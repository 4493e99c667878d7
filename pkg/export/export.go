// Package export serializes a finished decoding run to a compact binary
// form for downstream tooling, using msgpack the way the reference build
// already declared but never wired into a working export path.
package export

import (
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/lexdecode/lexdecode/pkg/result"
	"github.com/lexdecode/lexdecode/pkg/wordid"
)

// Word is the export-stable shape of one word occurrence: the surface
// form rendered through the registry rather than a bare id, so the
// exported file is self-contained and needs no dictionary to read back.
type Word struct {
	Surface  string `msgpack:"surface"`
	Score    int16  `msgpack:"score"`
	Category int16  `msgpack:"category"`
	Other    int16  `msgpack:"other"`
}

// Solution is the export-stable shape of one reported decoding.
type Solution struct {
	Plaintext string `msgpack:"plaintext"`
	Score     int64  `msgpack:"score"`
	Key       string `msgpack:"key"`
	Words     []Word `msgpack:"words"`
}

// Document is the top-level export payload for one task.
type Document struct {
	CipherText string     `msgpack:"cipher_text"`
	CipherKind string     `msgpack:"cipher_kind"`
	Solutions  []Solution `msgpack:"solutions"`
}

// Build renders a task's aggregator output into an exportable Document,
// resolving every word id to its surface form via reg.
func Build(cipherText, cipherKind string, solutions []result.Solution, reg *wordid.Registry) Document {
	doc := Document{CipherText: cipherText, CipherKind: cipherKind, Solutions: make([]Solution, len(solutions))}
	for i, s := range solutions {
		words := make([]Word, len(s.Words))
		for j, w := range s.Words {
			words[j] = Word{
				Surface:  reg.WordByID(w.ID),
				Score:    w.Score,
				Category: w.Category,
				Other:    w.Other,
			}
		}
		doc.Solutions[i] = Solution{Plaintext: s.Plaintext, Score: s.Score, Key: s.Key, Words: words}
	}
	return doc
}

// WriteFile msgpack-encodes doc and writes it to path.
func WriteFile(path string, doc Document) error {
	b, err := msgpack.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// ReadFile decodes a document previously written by WriteFile.
func ReadFile(path string) (Document, error) {
	var doc Document
	b, err := os.ReadFile(path)
	if err != nil {
		return doc, err
	}
	err = msgpack.Unmarshal(b, &doc)
	return doc, err
}
