package backup

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ckapps/quicknote/internal/database"
	"github.com/ckapps/quicknote/internal/model"
	"github.com/ckapps/quicknote/internal/store"
)

// mockS3Client implements s3Client for testing.
type mockS3Client struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMockS3() *mockS3Client {
	return &mockS3Client{objects: make(map[string][]byte)}
}

func (m *mockS3Client) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, _ := io.ReadAll(input.Body)
	m.objects[*input.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3Client) GetObject(_ context.Context, input *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[*input.Key]
	if !ok {
		return nil, &s3NotFound{}
	}
	return &s3.GetObjectOutput{
		Body: io.NopCloser(bytes.NewReader(data)),
	}, nil
}

func (m *mockS3Client) DeleteObject(_ context.Context, input *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, *input.Key)
	return &s3.DeleteObjectOutput{}, nil
}

type s3NotFound struct{}

func (e *s3NotFound) Error() string { return "NoSuchKey" }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func enabledConfig() Config {
	return Config{
		S3:         S3Config{Bucket: "test", AccessKey: "key", SecretKey: "secret"},
		Passphrase: "test-passphrase",
	}
}

func TestManagerStateLifecycle(t *testing.T) {
	// Without S3 config or passphrase -> disabled
	m := NewManager(Config{}, nil, nil, nil, testLogger())
	if m.Status().State != StateDisabled {
		t.Errorf("state = %q, want %q", m.Status().State, StateDisabled)
	}

	noPass := Config{S3: S3Config{Bucket: "test", AccessKey: "key", SecretKey: "secret"}}
	m2 := NewManager(noPass, nil, nil, nil, testLogger())
	if m2.Status().State != StateDisabled {
		t.Errorf("state without passphrase = %q, want %q", m2.Status().State, StateDisabled)
	}

	m3 := NewManager(enabledConfig(), nil, nil, nil, testLogger())
	if m3.Status().State != StateIdle {
		t.Errorf("state = %q, want %q", m3.Status().State, StateIdle)
	}
	if !m3.Enabled() {
		t.Error("expected manager to be enabled")
	}
}

func TestManagerStatusCallback(t *testing.T) {
	var received []Status
	var mu sync.Mutex
	cb := func(s Status) {
		mu.Lock()
		received = append(received, s)
		mu.Unlock()
	}

	m := NewManager(enabledConfig(), nil, nil, cb, testLogger())

	m.setStatus(Status{State: StateRunning, InProgress: true})
	m.setStatus(Status{State: StateIdle})

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 2 {
		t.Fatalf("received %d callbacks, want 2", len(received))
	}
	if received[0].State != StateRunning {
		t.Errorf("first callback state = %q, want %q", received[0].State, StateRunning)
	}
	if received[1].State != StateIdle {
		t.Errorf("second callback state = %q, want %q", received[1].State, StateIdle)
	}
}

func TestManagerStopSafety(t *testing.T) {
	m := NewManager(enabledConfig(), nil, nil, nil, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)
	time.Sleep(50 * time.Millisecond)
	cancel()
	m.Stop()

	// Double stop should not panic
	m.Stop()
}

func TestManagerDisabledNoStart(t *testing.T) {
	m := NewManager(Config{}, nil, nil, nil, testLogger())

	m.Start(context.Background())
	m.Stop()
}

func TestBackupNowRoundTrip(t *testing.T) {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	history := store.NewBackupStore(db)
	m := NewManager(enabledConfig(), db, history, nil, testLogger())
	mock := newMockS3()
	m.client = mock

	id, err := m.BackupNow(context.Background())
	if err != nil {
		t.Fatalf("backup now: %v", err)
	}

	record, err := history.GetByID(id)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if record == nil {
		t.Fatal("expected history record")
	}
	if record.Status != model.BackupStatusCompleted {
		t.Errorf("status = %q, want %q", record.Status, model.BackupStatusCompleted)
	}

	mock.mu.Lock()
	sealed, ok := mock.objects[record.ObjectKey]
	mock.mu.Unlock()
	if !ok {
		t.Fatalf("object %q not uploaded", record.ObjectKey)
	}
	if int64(len(sealed)) != record.SizeBytes {
		t.Errorf("size = %d, want %d", record.SizeBytes, len(sealed))
	}

	// The upload must decrypt back to a usable snapshot.
	snapshot, err := Open(sealed, "test-passphrase")
	if err != nil {
		t.Fatalf("decrypt upload: %v", err)
	}
	if len(snapshot) == 0 {
		t.Error("expected non-empty snapshot")
	}

	status := m.Status()
	if status.State != StateIdle {
		t.Errorf("state = %q, want %q", status.State, StateIdle)
	}
	if status.LastBackup == nil {
		t.Error("expected LastBackup to be set")
	}
}

func TestBackupNowNotConfigured(t *testing.T) {
	m := NewManager(Config{}, nil, nil, nil, testLogger())
	if _, err := m.BackupNow(context.Background()); err == nil {
		t.Fatal("expected error when not configured")
	}
}
