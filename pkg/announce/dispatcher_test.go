package announce

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func TestDispatchPrimarySuccess(t *testing.T) {
	primary := &Mock{MockName: "remote"}
	fallback := &Mock{MockName: "local"}
	d := NewDispatcher(primary, fallback, nil)

	d.Dispatch(context.Background(), "person", "center")

	if primary.CallCount() != 1 {
		t.Errorf("primary calls = %d, want 1", primary.CallCount())
	}
	if fallback.CallCount() != 0 {
		t.Errorf("fallback calls = %d, want 0", fallback.CallCount())
	}
	if d.Status() != VoiceReady {
		t.Errorf("status = %v, want VoiceReady", d.Status())
	}
}

func TestDispatchFallsBackExactlyOnce(t *testing.T) {
	primary := &Mock{
		MockName: "remote",
		SpeakFunc: func(ctx context.Context, subject, message string) error {
			return errors.New("endpoint down")
		},
	}
	fallback := &Mock{MockName: "local"}
	d := NewDispatcher(primary, fallback, nil)

	d.Dispatch(context.Background(), "cup", "top left")

	if fallback.CallCount() != 1 {
		t.Fatalf("fallback calls = %d, want exactly 1", fallback.CallCount())
	}
	call := fallback.Calls()[0]
	if call.Subject != "cup" || call.Message != "top left" {
		t.Errorf("fallback received (%q, %q), want same announcement", call.Subject, call.Message)
	}
	if d.Status() != VoiceDegraded {
		t.Errorf("status = %v, want VoiceDegraded", d.Status())
	}
}

func TestDispatchBothUnavailable(t *testing.T) {
	fail := func(ctx context.Context, subject, message string) error {
		return errors.New("unavailable")
	}
	d := NewDispatcher(&Mock{SpeakFunc: fail}, &Mock{SpeakFunc: fail}, nil)

	var statuses []VoiceStatus
	d.OnStatus = func(s VoiceStatus) { statuses = append(statuses, s) }

	// Must not panic or surface anything.
	d.Dispatch(context.Background(), "person", "center")

	if d.Status() != VoiceUnavailable {
		t.Errorf("status = %v, want VoiceUnavailable", d.Status())
	}
	if len(statuses) != 1 || statuses[0] != VoiceUnavailable {
		t.Errorf("OnStatus calls = %v, want [VoiceUnavailable]", statuses)
	}
}

func TestDispatchNilProviders(t *testing.T) {
	d := NewDispatcher(nil, nil, nil)
	d.Dispatch(context.Background(), "person", "center")

	if d.Status() != VoiceUnavailable {
		t.Errorf("status = %v, want VoiceUnavailable", d.Status())
	}
}

func TestDispatchRecoversStatus(t *testing.T) {
	healthy := false
	primary := &Mock{SpeakFunc: func(ctx context.Context, subject, message string) error {
		if healthy {
			return nil
		}
		return errors.New("flaky")
	}}
	d := NewDispatcher(primary, &Mock{}, nil)

	d.Dispatch(context.Background(), "a", "b")
	if d.Status() != VoiceDegraded {
		t.Fatalf("status = %v, want VoiceDegraded", d.Status())
	}

	healthy = true
	d.Dispatch(context.Background(), "a", "b")
	if d.Status() != VoiceReady {
		t.Errorf("status = %v, want VoiceReady after recovery", d.Status())
	}
}

func TestRemoteSpeakWireFormat(t *testing.T) {
	var got speakRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := decodeJSON(r, &got); err != nil {
			t.Errorf("decode: %v", err)
		}
	}))
	defer srv.Close()

	remote := NewRemote(srv.URL)
	if err := remote.Speak(context.Background(), "person", "center"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Object != "person" || got.Location != "center" {
		t.Errorf("wire body = %+v, want {person center}", got)
	}
}

func TestRemoteSpeakNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	remote := NewRemote(srv.URL)
	if err := remote.Speak(context.Background(), "person", "center"); err == nil {
		t.Error("expected error on non-2xx status")
	}
}
