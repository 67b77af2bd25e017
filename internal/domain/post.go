package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Post is a single immutable status update.
type Post struct {
	ID        int64
	AuthorID  int64
	CreatedAt float64 // seconds since epoch
	Body      string
}

// recordVersion tags the stored post record format. Bump it if the field
// layout changes; decode rejects records with any other tag.
const recordVersion = "1"

// ErrBadRecord indicates a stored post record that cannot be decoded.
var ErrBadRecord = errors.New("malformed post record")

// EncodeRecord serializes a post for storage as a single string value.
// The layout is `1|<author>|<created>|<bodyLen>|<body>`: the explicit body
// length makes `|` characters inside the body safe and lets decode detect
// truncated values.
func (p Post) EncodeRecord() string {
	created := strconv.FormatFloat(p.CreatedAt, 'f', -1, 64)
	return recordVersion + "|" +
		strconv.FormatInt(p.AuthorID, 10) + "|" +
		created + "|" +
		strconv.Itoa(len(p.Body)) + "|" +
		p.Body
}

// DecodeRecord parses a stored post record. The post ID is not part of the
// record; callers set it from the key they loaded the record under.
func DecodeRecord(raw string) (Post, error) {
	parts := strings.SplitN(raw, "|", 5)
	if len(parts) != 5 {
		return Post{}, fmt.Errorf("%w: expected 5 fields, got %d", ErrBadRecord, len(parts))
	}
	if parts[0] != recordVersion {
		return Post{}, fmt.Errorf("%w: unknown version %q", ErrBadRecord, parts[0])
	}

	authorID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Post{}, fmt.Errorf("%w: author id: %v", ErrBadRecord, err)
	}
	createdAt, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return Post{}, fmt.Errorf("%w: created at: %v", ErrBadRecord, err)
	}
	bodyLen, err := strconv.Atoi(parts[3])
	if err != nil {
		return Post{}, fmt.Errorf("%w: body length: %v", ErrBadRecord, err)
	}
	if len(parts[4]) != bodyLen {
		return Post{}, fmt.Errorf("%w: body length mismatch (declared %d, got %d)", ErrBadRecord, bodyLen, len(parts[4]))
	}

	return Post{
		AuthorID:  authorID,
		CreatedAt: createdAt,
		Body:      parts[4],
	}, nil
}
