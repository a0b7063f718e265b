package store

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/dmitrijs2005/moodkeeper/internal/common"
	"golang.org/x/sync/errgroup"
)

// Blob is an attachment waiting to be uploaded.
type Blob struct {
	Data     []byte
	Filename string
	MIME     string
}

// CheckIn is an entry together with the attachments to upload first.
type CheckIn struct {
	Entry     models.MoodEntry
	Image     *Blob
	VoiceNote *Blob
}

// SaveImage uploads one image and returns its file id.
func (s *MoodStore) SaveImage(ctx context.Context, b Blob) (string, error) {
	id, err := s.remote.UploadFile(ctx, common.ImagesBucket, b.Data, b.Filename, b.MIME)
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return id, nil
}

// SaveAudioRecording uploads one voice note and returns its file id.
func (s *MoodStore) SaveAudioRecording(ctx context.Context, b Blob) (string, error) {
	id, err := s.remote.UploadFile(ctx, common.VoiceNotesBucket, b.Data, b.Filename, b.MIME)
	if err != nil {
		return "", fmt.Errorf("save voice note: %w", err)
	}
	return id, nil
}

// GetImage downloads the image attached to entry.
func (s *MoodStore) GetImage(ctx context.Context, entry models.MoodEntry) ([]byte, error) {
	if entry.ImageID == "" {
		return nil, ErrNoBlob
	}
	data, err := s.remote.DownloadFile(ctx, common.ImagesBucket, entry.ImageID)
	if err != nil {
		return nil, fmt.Errorf("get image: %w", err)
	}
	return data, nil
}

// GetVoiceNote downloads the voice note attached to entry.
func (s *MoodStore) GetVoiceNote(ctx context.Context, entry models.MoodEntry) ([]byte, error) {
	if entry.VoiceNoteID == "" {
		return nil, ErrNoBlob
	}
	data, err := s.remote.DownloadFile(ctx, common.VoiceNotesBucket, entry.VoiceNoteID)
	if err != nil {
		return nil, fmt.Errorf("get voice note: %w", err)
	}
	return data, nil
}

// SaveCheckIn uploads the attachments concurrently, stamps their ids on the
// entry and appends it. An upload failure stops the check-in before the
// entry is written and does not run the write policy. An attachment that
// did upload is left on the remote with nothing referencing it; its id is
// logged as an orphan so it can be cleaned up.
func (s *MoodStore) SaveCheckIn(ctx context.Context, ci CheckIn) error {
	entry := ci.Entry

	g, gctx := errgroup.WithContext(ctx)
	if ci.Image != nil {
		g.Go(func() error {
			id, err := s.SaveImage(gctx, *ci.Image)
			entry.ImageID = id
			return err
		})
	}
	if ci.VoiceNote != nil {
		g.Go(func() error {
			id, err := s.SaveAudioRecording(gctx, *ci.VoiceNote)
			entry.VoiceNoteID = id
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.logOrphan(ctx, common.ImagesBucket, entry.ImageID)
		s.logOrphan(ctx, common.VoiceNotesBucket, entry.VoiceNoteID)
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return err
	}

	return s.Append(ctx, entry)
}

func (s *MoodStore) logOrphan(ctx context.Context, bucket, id string) {
	if id == "" {
		return
	}
	s.logger.Warn(ctx, "orphaned upload", "bucket", bucket, "file_id", id)
}

// Task is the handle of a check-in running in the background.
type Task struct {
	done chan struct{}
	err  error
}

// Done is closed when the task finishes.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task finishes or ctx ends.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SaveCheckInAsync runs SaveCheckIn in a goroutine. onDone, if not nil, is
// called with the result before the task is marked done.
func (s *MoodStore) SaveCheckInAsync(ctx context.Context, ci CheckIn, onDone func(error)) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.err = s.SaveCheckIn(ctx, ci)
		if onDone != nil {
			onDone(t.err)
		}
	}()
	return t
}
