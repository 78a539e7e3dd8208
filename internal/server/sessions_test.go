package server

import (
	"errors"
	"testing"
	"time"

	"github.com/theirongolddev/dealcast/internal/model"
)

func TestSessions_CreateGetDelete(t *testing.T) {
	s := NewSessions(time.Hour)
	deals := []model.Deal{{Key: "a"}, {Key: "b"}}

	sess := s.Create("deals.csv", deals, time.Now())
	got, err := s.Get(sess.ID)
	if err != nil || got != sess {
		t.Fatalf("Get() = %v, %v", got, err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}

	if err := s.Delete(sess.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestSessions_Expire(t *testing.T) {
	s := NewSessions(20 * time.Millisecond)
	sess := s.Create("x.csv", nil, time.Now())

	time.Sleep(40 * time.Millisecond)
	if _, err := s.Get(sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after ttl error = %v, want ErrNotFound", err)
	}
}

func TestSession_SetChoicesIsAtomic(t *testing.T) {
	sess := newSession("x.csv", []model.Deal{{Key: "a"}, {Key: "b"}}, time.Now())

	err := sess.SetChoices(model.Choices{"a": model.DispositionBin, "zz": model.DispositionWin})
	var unknown *UnknownDealError
	if !errors.As(err, &unknown) || len(unknown.Keys) != 1 || unknown.Keys[0] != "zz" {
		t.Fatalf("SetChoices() error = %v", err)
	}
	if len(sess.Choices()) != 0 {
		t.Errorf("partial update applied: %v", sess.Choices())
	}

	if err := sess.SetChoices(model.Choices{"a": model.DispositionBin}); err != nil {
		t.Fatal(err)
	}
	c := sess.Choices()
	c["b"] = model.DispositionAdvance
	if _, ok := sess.Choices()["b"]; ok {
		t.Error("Choices() returned shared map")
	}
}
