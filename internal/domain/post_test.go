package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRecordRoundtrip(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "plain", body: "hello world"},
		{name: "pipes in body", body: "a|b|c|d"},
		{name: "leading pipe", body: "|starts with the separator"},
		{name: "empty-ish unicode", body: "héllo ✓"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Post{AuthorID: 42, CreatedAt: 1700000000.25, Body: tt.body}

			out, err := DecodeRecord(in.EncodeRecord())
			require.NoError(t, err)
			assert.Equal(t, in.AuthorID, out.AuthorID)
			assert.Equal(t, in.CreatedAt, out.CreatedAt)
			assert.Equal(t, in.Body, out.Body)
		})
	}
}

func TestDecodeRecordRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "too few fields", raw: "1|42|1700000000"},
		{name: "unknown version", raw: "9|42|1700000000|5|hello"},
		{name: "legacy unversioned record", raw: "42|1700000000.25|hello"},
		{name: "truncated body", raw: "1|42|1700000000|10|short"},
		{name: "non-numeric author", raw: "1|bob|1700000000|5|hello"},
		{name: "non-numeric length", raw: "1|42|1700000000|x|hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRecord(tt.raw)
			require.ErrorIs(t, err, ErrBadRecord)
		})
	}
}
