// Copyright 2025 ShikiPilot
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"time"

	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the storage layer. The record types are small and
// stable, so they are written by hand on mus-go primitives rather than
// generated.
var (
	IDMUS      = idMUS{}
	StoreMUS   = storeMUS{}
	ProductMUS = productMUS{}
	ChatMUS    = chatMUS{}
	MessageMUS = messageMUS{}
)

type idMUS struct{}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

type storeMUS struct{}

func (storeMUS) Size(v Store) int {
	return IDMUS.Size(v.Id) +
		sizeString(v.OwnerID) +
		sizeString(v.Name) +
		sizeString(v.Slug) +
		sizeString(v.Description) +
		sizeTime(v.CreatedAt)
}

func (storeMUS) Marshal(v Store, bs []byte) int {
	n := IDMUS.Marshal(v.Id, bs)
	n += marshalString(v.OwnerID, bs[n:])
	n += marshalString(v.Name, bs[n:])
	n += marshalString(v.Slug, bs[n:])
	n += marshalString(v.Description, bs[n:])
	n += marshalTime(v.CreatedAt, bs[n:])
	return n
}

func (storeMUS) Unmarshal(bs []byte) (v Store, n int, err error) {
	var m int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.OwnerID, m, err = unmarshalString(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Name, m, err = unmarshalString(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Slug, m, err = unmarshalString(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Description, m, err = unmarshalString(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.CreatedAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + m, err
	}
	return v, n + m, nil
}

type productMUS struct{}

func (productMUS) Size(v Product) int {
	return IDMUS.Size(v.Id) +
		IDMUS.Size(v.StoreId) +
		sizeString(v.Name) +
		varint.Int64.Size(v.Price) +
		varint.Int64.Size(v.Stock) +
		sizeString(v.Description) +
		sizeVector(v.Embedding) +
		sizeTime(v.CreatedAt)
}

func (productMUS) Marshal(v Product, bs []byte) int {
	n := IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.StoreId, bs[n:])
	n += marshalString(v.Name, bs[n:])
	n += varint.Int64.Marshal(v.Price, bs[n:])
	n += varint.Int64.Marshal(v.Stock, bs[n:])
	n += marshalString(v.Description, bs[n:])
	n += marshalVector(v.Embedding, bs[n:])
	n += marshalTime(v.CreatedAt, bs[n:])
	return n
}

func (productMUS) Unmarshal(bs []byte) (v Product, n int, err error) {
	var m int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.StoreId, m, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Name, m, err = unmarshalString(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Price, m, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Stock, m, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Description, m, err = unmarshalString(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Embedding, m, err = unmarshalVector(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.CreatedAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + m, err
	}
	return v, n + m, nil
}

type chatMUS struct{}

func (chatMUS) Size(v Chat) int {
	return IDMUS.Size(v.Id) + IDMUS.Size(v.StoreId) + sizeTime(v.CreatedAt)
}

func (chatMUS) Marshal(v Chat, bs []byte) int {
	n := IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.StoreId, bs[n:])
	n += marshalTime(v.CreatedAt, bs[n:])
	return n
}

func (chatMUS) Unmarshal(bs []byte) (v Chat, n int, err error) {
	var m int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.StoreId, m, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.CreatedAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + m, err
	}
	return v, n + m, nil
}

type messageMUS struct{}

func (messageMUS) Size(v Message) int {
	return IDMUS.Size(v.Id) +
		IDMUS.Size(v.ChatId) +
		varint.Int.Size(int(v.Role)) +
		sizeString(v.Content) +
		sizeTime(v.CreatedAt)
}

func (messageMUS) Marshal(v Message, bs []byte) int {
	n := IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.ChatId, bs[n:])
	n += varint.Int.Marshal(int(v.Role), bs[n:])
	n += marshalString(v.Content, bs[n:])
	n += marshalTime(v.CreatedAt, bs[n:])
	return n
}

func (messageMUS) Unmarshal(bs []byte) (v Message, n int, err error) {
	var m int
	var role int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.ChatId, m, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if role, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	v.Role = MessageRole(role)
	n += m
	if v.Content, m, err = unmarshalString(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.CreatedAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + m, err
	}
	return v, n + m, nil
}

func sizeString(s string) int {
	return varint.Int.Size(len(s)) + len(s)
}

func marshalString(s string, bs []byte) int {
	n := varint.Int.Marshal(len(s), bs)
	n += copy(bs[n:], s)
	return n
}

func unmarshalString(bs []byte) (string, int, error) {
	l, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return "", n, err
	}
	if l < 0 || len(bs)-n < l {
		return "", n, ErrTruncatedRecord
	}
	return string(bs[n : n+l]), n + l, nil
}

// Timestamps are stored as Unix microseconds.
func sizeTime(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}

func marshalTime(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func unmarshalTime(bs []byte) (time.Time, int, error) {
	micro, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micro).UTC(), n, nil
}

// Vectors are stored as a length prefix followed by fixed-width floats.
// A nil vector round-trips as nil, not as an empty slice.
func sizeVector(v []float32) int {
	n := varint.Int.Size(len(v))
	for _, f := range v {
		n += raw.Float32.Size(f)
	}
	return n
}

func marshalVector(v []float32, bs []byte) int {
	n := varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return n
}

func unmarshalVector(bs []byte) ([]float32, int, error) {
	l, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if l < 0 {
		return nil, n, ErrTruncatedRecord
	}
	if l == 0 {
		return nil, n, nil
	}
	v := make([]float32, l)
	for i := 0; i < l; i++ {
		f, m, err := raw.Float32.Unmarshal(bs[n:])
		if err != nil {
			return nil, n + m, err
		}
		v[i] = f
		n += m
	}
	return v, n, nil
}
