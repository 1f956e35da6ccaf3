package objstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakePut struct {
	objects map[string]string
	err     error
}

func (f *fakePut) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = string(b)
	return &s3.PutObjectOutput{}, nil
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		raw     string
		want    Target
		wantErr bool
	}{
		{"s3://reports/bench/2024", Target{Scheme: "s3", Bucket: "reports", Prefix: "bench/2024"}, false},
		{"r2://reports/", Target{Scheme: "r2", Bucket: "reports"}, false},
		{"s3://reports", Target{Scheme: "s3", Bucket: "reports"}, false},
		{"https://reports/x", Target{}, true},
		{"s3:///x", Target{}, true},
		{"reports", Target{}, true},
	}
	for _, tt := range tests {
		got, err := ParseURL(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseURL(%q) err = %v, wantErr %v", tt.raw, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidURL) {
			t.Fatalf("ParseURL(%q) err = %v, want ErrInvalidURL", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("ParseURL(%q) = %+v, want %+v", tt.raw, got, tt.want)
		}
	}
}

func TestTargetKey(t *testing.T) {
	tg := Target{Bucket: "b", Prefix: "runs/1"}
	if got := tg.Key("/tmp/out/sweep.jsonl"); got != "runs/1/sweep.jsonl" {
		t.Fatalf("Key = %s", got)
	}
	if got := (Target{Bucket: "b"}).Key("sweep.parquet"); got != "sweep.parquet" {
		t.Fatalf("Key without prefix = %s", got)
	}
}

func TestUploadFiles(t *testing.T) {
	dir := t.TempDir()
	log := filepath.Join(dir, "sweep.jsonl")
	if err := os.WriteFile(log, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	fake := &fakePut{objects: map[string]string{}}
	u := &Uploader{client: fake, target: Target{Scheme: "s3", Bucket: "reports", Prefix: "p"}}

	keys, err := u.UploadFiles(context.Background(), log, "")
	if err != nil {
		t.Fatalf("UploadFiles: %v", err)
	}
	if len(keys) != 1 || keys[0] != "p/sweep.jsonl" {
		t.Fatalf("keys = %v", keys)
	}
	if fake.objects["reports/p/sweep.jsonl"] != "{}\n" {
		t.Fatalf("unexpected objects: %v", fake.objects)
	}
}

func TestUploadFileErrors(t *testing.T) {
	u := &Uploader{client: &fakePut{err: errors.New("denied")}, target: Target{Bucket: "b"}}
	if _, err := u.UploadFile(context.Background(), filepath.Join(t.TempDir(), "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want not exist", err)
	}

	p := filepath.Join(t.TempDir(), "f")
	os.WriteFile(p, []byte("x"), 0o644)
	if _, err := u.UploadFile(context.Background(), p); err == nil {
		t.Fatalf("expected upload error")
	}
}

func TestNewFromEnvR2RequiresAccount(t *testing.T) {
	t.Setenv("R2_ACCOUNT_ID", "")
	if _, err := NewFromEnv(context.Background(), "r2://bucket"); err == nil {
		t.Fatalf("expected error without account id")
	}
}

func TestNewR2Uploader(t *testing.T) {
	u, err := NewR2Uploader(context.Background(), "acct", "key", "secret", Target{Scheme: "r2", Bucket: "b"})
	if err != nil {
		t.Fatalf("NewR2Uploader: %v", err)
	}
	if u.Endpoint() != "https://acct.r2.cloudflarestorage.com" {
		t.Fatalf("endpoint = %s", u.Endpoint())
	}
}
