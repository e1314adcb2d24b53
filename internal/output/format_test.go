package output

import (
	"testing"

	"github.com/ozonewl/dhost/internal/message"
)

func TestFormatEventLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		event  any
		want   string
		wantOK bool
	}{
		{
			name:   "message event info",
			event:  MessageEvent{Severity: SeverityInfo, Text: "hello"},
			want:   "hello",
			wantOK: true,
		},
		{
			name:   "message event success",
			event:  MessageEvent{Severity: SeveritySuccess, Text: "done"},
			want:   "> Success: done",
			wantOK: true,
		},
		{
			name:   "message event warning",
			event:  MessageEvent{Severity: SeverityWarning, Text: "careful"},
			want:   "> Warning: careful",
			wantOK: true,
		},
		{
			name:   "error with detail",
			event:  ErrorEvent{Title: "Worker failed", Detail: "exit 2"},
			want:   "Error: Worker failed\n  exit 2",
			wantOK: true,
		},
		{
			name:   "worker spawned",
			event:  WorkerStatusEvent{Phase: "spawned", PID: 42},
			want:   "Worker spawned (pid 42)",
			wantOK: true,
		},
		{
			name:   "worker exited with code",
			event:  WorkerStatusEvent{Phase: "exited", ExitCode: 3},
			want:   "Worker exited with code 3",
			wantOK: true,
		},
		{
			name:   "channel with deferred commands",
			event:  ChannelStatusEvent{State: "disconnected", Pending: 2},
			want:   "Channel disconnected (2 deferred)",
			wantOK: true,
		},
		{
			name:   "channel connected",
			event:  ChannelStatusEvent{State: "connected"},
			want:   "Channel connected",
			wantOK: true,
		},
		{
			name:   "pointer button",
			event:  message.PointerButton{Widget: 3, Type: message.MousePressed, Flags: message.FlagLeftButton, X: 1.5, Y: 2},
			want:   "mouse-pressed on widget 3 at 1.5,2 (flags 0x8)",
			wantOK: true,
		},
		{
			name:   "key",
			event:  message.Key{Type: message.KeyReleased, Code: 0x41, Modifiers: 1},
			want:   "key-released code 0x41 (modifiers 0x1)",
			wantOK: true,
		},
		{
			name:   "output size",
			event:  message.OutputSize{Width: 800, Height: 600},
			want:   "output size 800x600",
			wantOK: true,
		},
		{
			name:   "close widget",
			event:  message.CloseWidget{Widget: 9},
			want:   "widget 9 closed by worker",
			wantOK: true,
		},
		{
			name:   "unsupported event",
			event:  struct{}{},
			want:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := FormatEventLine(tt.event)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
