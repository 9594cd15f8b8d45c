package s3

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"slidecore/internal/kv/kvtest"
)

func TestS3MockContract(t *testing.T) {
	kvtest.RunContract(t, NewMockForTests(""))
}

func TestS3MockConcurrent(t *testing.T) {
	kvtest.RunConcurrent(t, NewMockForTests("decks"))
}

func TestS3PrefixedObjectKeys(t *testing.T) {
	s := NewMockForTests("/decks/")
	if got := s.ObjectKey("presentation_index"); got != "decks/presentation_index" {
		t.Fatalf("unexpected object key %q", got)
	}
	bare := NewMockForTests("")
	if got := bare.ObjectKey("k"); got != "k" {
		t.Fatalf("unexpected object key %q", got)
	}
	ctx := context.Background()
	if err := s.Set(ctx, "presentation_index", []byte(`[]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, "presentation_index")
	if err != nil || string(got) != `[]` {
		t.Fatalf("get: %q %v", got, err)
	}
	if s.Driver() != "s3" || s.Close() != nil {
		t.Fatalf("unexpected driver or close error")
	}
}

func TestS3NewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected bucket error")
	}
}

func TestS3NewWithStaticCredentials(t *testing.T) {
	s, err := New(context.Background(), Config{
		Bucket:          "decks",
		Endpoint:        "http://localhost:9000",
		PathStyle:       true,
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if s.bucket != "decks" || s.prefix != "" {
		t.Fatalf("unexpected store %+v", s)
	}
}

func TestDecodeChunked(t *testing.T) {
	body, ok := decodeChunked([]byte("2;chunk-signature=abc\r\n[]\r\n0\r\nx-amz-checksum-crc32:AAAA\r\n\r\n"))
	if !ok || string(body) != "[]" {
		t.Fatalf("decode: %q %v", body, ok)
	}
	if _, ok := decodeChunked([]byte("plain body")); ok {
		t.Fatalf("plain body should not decode")
	}
	if _, err := parseHex("zz"); err == nil {
		t.Fatalf("expected hex error")
	}
}

func TestIsNotFound(t *testing.T) {
	cases := map[string]struct {
		err  error
		want bool
	}{
		"no such key":   {fmt.Errorf("get: %w", &types.NoSuchKey{}), true},
		"head missing":  {&types.NotFound{}, true},
		"generic 404":   {&smithy.GenericAPIError{Code: "NotFound"}, true},
		"access denied": {&smithy.GenericAPIError{Code: "AccessDenied"}, false},
		"plain":         {errors.New("boom"), false},
	}
	for name, tc := range cases {
		if got := isNotFound(tc.err); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", name, tc.want, got)
		}
	}
}
