/**
 * Copyright (c) 2026, The Selene Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package incr

import (
	"encoding/binary"
	"fmt"
	"hash"
	"hash/fnv"
	"reflect"

	"github.com/botobag/selene/internal/unsafe"
	jsoniter "github.com/json-iterator/go"
)

// canonicalJSON produces byte-stable encodings for content hashing. Map keys are sorted so
// logically equal values never hash apart.
var canonicalJSON = jsoniter.Config{SortMapKeys: true}.Froze()

// contentHash computes the identity hash of a value: a 64-bit FNV-1a digest over the value's
// concrete type name followed by its content. Mixing in the type name keeps values of distinct
// types from aliasing even when their encodings agree, e.g. two wrapper types over the same
// string.
func contentHash(value interface{}) uint64 {
	digest := fnv.New64a()
	writeTypeName(digest, value)
	writeContent(digest, value)
	return digest.Sum64()
}

// deriveKey computes a Key from a hand-chosen prefix and an identifying value. It is the
// common implementation behind SourceKeyFor and memo registration.
func deriveKey(prefix string, id interface{}) Key {
	digest := fnv.New64a()
	digest.Write(unsafe.Bytes(prefix))
	digest.Write([]byte{0})
	writeTypeName(digest, id)
	writeContent(digest, id)
	return Key(digest.Sum64())
}

// writeContent feeds the content of a value into digest, honoring a Hashable override and
// falling back to the canonical encoding.
func writeContent(digest hash.Hash64, value interface{}) {
	if hashable, ok := value.(Hashable); ok {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], hashable.HashContent())
		digest.Write(buf[:])
		return
	}
	encoded, err := canonicalJSON.Marshal(value)
	if err != nil {
		panic(fmt.Sprintf("incr: value of type %T has no canonical encoding (%s); implement "+
			"incr.Hashable to supply a content hash", value, err))
	}
	digest.Write(encoded)
}

// writeTypeName feeds the fully-qualified concrete type name of value into digest. Pointers
// hash as their element type so a value interned behind a pointer stays on the same node as
// one interned directly.
func writeTypeName(digest hash.Hash64, value interface{}) {
	if value == nil {
		digest.Write(unsafe.Bytes("nil"))
		digest.Write([]byte{0})
		return
	}
	t := reflect.TypeOf(value)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if path := t.PkgPath(); path != "" {
		digest.Write(unsafe.Bytes(path))
		digest.Write(unsafe.Bytes("."))
	}
	if name := t.Name(); name != "" {
		digest.Write(unsafe.Bytes(name))
	} else {
		digest.Write(unsafe.Bytes(t.String()))
	}
	digest.Write([]byte{0})
}
